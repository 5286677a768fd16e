package common

// Key-value slot names. Per-user slots are the prefix followed by the
// student ID, e.g. "appointments_10001".
const (
	AppointmentsKeyPrefix = "appointments_"
	ProfileKeyPrefix      = "profile_"
	SessionKey            = "session"
)

// AppointmentsKey returns the slot holding a student's appointments.
func AppointmentsKey(userID string) string {
	return AppointmentsKeyPrefix + userID
}

// ProfileKey returns the slot holding a student's profile.
func ProfileKey(userID string) string {
	return ProfileKeyPrefix + userID
}
