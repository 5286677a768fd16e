package identity

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/clinicbook/internal/client/models"
	"github.com/dmitrijs2005/clinicbook/internal/common"
	"golang.org/x/crypto/bcrypt"
)

//go:embed students.json
var defaultStudents []byte

// pinHashCost is lowered in tests.
var pinHashCost = bcrypt.DefaultCost

type studentRecord struct {
	StudentID int64  `json:"studentId"`
	PIN       int64  `json:"pin"`
	Name      string `json:"StudentName"`
}

type studentsFile struct {
	Users []studentRecord `json:"users"`
}

type Directory struct {
	students map[int64]models.Student
}

// LoadDirectory reads the students file at path, or the built-in list when
// path is empty.
func LoadDirectory(path string) (*Directory, error) {
	if path == "" {
		return ParseDirectory(defaultStudents)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read students file: %w", err)
	}
	return ParseDirectory(data)
}

// ParseDirectory decodes a students document and hashes every PIN.
func ParseDirectory(data []byte) (*Directory, error) {
	var f studentsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode students: %w", err)
	}

	d := &Directory{students: make(map[int64]models.Student, len(f.Users))}
	for _, u := range f.Users {
		if _, dup := d.students[u.StudentID]; dup {
			return nil, fmt.Errorf("duplicate student id %d", u.StudentID)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(strconv.FormatInt(u.PIN, 10)), pinHashCost)
		if err != nil {
			return nil, fmt.Errorf("hash pin of %d: %w", u.StudentID, err)
		}
		d.students[u.StudentID] = models.Student{ID: u.StudentID, Name: u.Name, PINHash: hash}
	}
	return d, nil
}

func (d *Directory) Len() int {
	return len(d.students)
}

func (d *Directory) Lookup(id int64) (models.Student, bool) {
	s, ok := d.students[id]
	return s, ok
}

// ParseNumeric parses a student id or PIN typed by the user. Surrounding
// blanks are ignored; anything else that is not a decimal digit is rejected.
func ParseNumeric(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, common.ErrInvalidInput
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, common.ErrInvalidInput
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, common.ErrInvalidInput
	}
	return n, nil
}

// Authenticate checks a student id and PIN. Non-numeric input fails with
// common.ErrInvalidInput before any lookup; an unknown id or wrong PIN fails
// with common.ErrUnauthorized.
func (d *Directory) Authenticate(idText string, pin []byte) (models.Student, error) {
	id, err := ParseNumeric(idText)
	if err != nil {
		return models.Student{}, err
	}
	pinValue, err := ParseNumeric(string(pin))
	if err != nil {
		return models.Student{}, err
	}

	s, ok := d.students[id]
	if !ok {
		return models.Student{}, common.ErrUnauthorized
	}

	canonical := []byte(strconv.FormatInt(pinValue, 10))
	defer common.WipeByteArray(canonical)
	if err := bcrypt.CompareHashAndPassword(s.PINHash, canonical); err != nil {
		return models.Student{}, common.ErrUnauthorized
	}
	return s, nil
}
