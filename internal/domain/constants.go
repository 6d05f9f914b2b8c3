package domain

// Default configuration values
const (
	DefaultSlotCadenceMinutes     = 30
	DefaultCleanupIntervalMinutes = 60
	DefaultCancelledRetentionDays = 30
)

// Business validation constants
const (
	MinSlotCadenceMinutes   = 5
	MaxSlotCadenceMinutes   = 240
	MinServiceDuration      = 5
	MaxServiceDuration      = 480 // 8 hours
	MaxServicesPerBooking   = 10
	MaxNotesLength          = 500
	MaxCustomerNameLength   = 120
	MaxCustomerPhoneLength  = 20
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Дни недели в нумерации расписания (0 = воскресенье ... 6 = суббота)
const (
	MinDayOfWeek = 0
	MaxDayOfWeek = 6
)
