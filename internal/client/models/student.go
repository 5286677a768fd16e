package models

// Student is an entry of the students directory. PIN is kept only as a
// bcrypt hash once the directory is loaded.
type Student struct {
	ID      int64
	Name    string
	PINHash []byte
}

// Profile holds the editable details of the signed-in student.
type Profile struct {
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
}
