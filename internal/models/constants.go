package models

// Employee statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Leave statuses.
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

// Import kinds accepted by the bulk importer.
const (
	ImportEmployees  = "employee"
	ImportPayroll    = "payroll"
	ImportAttendance = "attendance"
)

// Notification schedule types.
const (
	ScheduleTypePayroll        = "payroll"
	ScheduleTypeLeaves         = "leaves"
	ScheduleTypeAttendance     = "attendance"
	ScheduleTypeContractExpiry = "contract_expiry"
)

// Channel names.
const (
	ChannelEmail    = "email"
	ChannelApp      = "app"
	ChannelWhatsApp = "whatsapp"
	ChannelTelegram = "telegram"
)

// ValidImportKind reports whether kind is one of the accepted import kinds.
func ValidImportKind(kind string) bool {
	switch kind {
	case ImportEmployees, ImportPayroll, ImportAttendance:
		return true
	}
	return false
}

// ValidScheduleType reports whether t is a known schedule type.
func ValidScheduleType(t string) bool {
	switch t {
	case ScheduleTypePayroll, ScheduleTypeLeaves, ScheduleTypeAttendance, ScheduleTypeContractExpiry:
		return true
	}
	return false
}

// ContractExpiryWindowDays is how far ahead the contract-expiry digest looks.
const ContractExpiryWindowDays = 30
