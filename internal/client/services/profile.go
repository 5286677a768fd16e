package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/clinicbook/internal/client/models"
	"github.com/dmitrijs2005/clinicbook/internal/client/repositories/kv"
	"github.com/dmitrijs2005/clinicbook/internal/common"
)

// ProfileService reads and edits the per-student profile slot.
type ProfileService interface {
	Get(ctx context.Context, s models.Student) (models.Profile, error)
	Update(ctx context.Context, studentID int64, p models.Profile) (models.Profile, error)
	SetImage(ctx context.Context, studentID int64, ref string) error
	Clear(ctx context.Context, studentID int64) error
}

type profileService struct {
	repo kv.Repository
}

func NewProfileService(repo kv.Repository) ProfileService {
	return &profileService{repo: repo}
}

func profileKey(id int64) string {
	return common.ProfileKey(fmt.Sprint(id))
}

func (p *profileService) load(ctx context.Context, id int64) (models.Profile, error) {
	var out models.Profile
	data, err := p.repo.Get(ctx, profileKey(id))
	if err != nil {
		return out, fmt.Errorf("read profile: %w", err)
	}
	if data == nil {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode profile: %w", err)
	}
	return out, nil
}

func (p *profileService) save(ctx context.Context, id int64, prof models.Profile) error {
	data, err := json.Marshal(prof)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := p.repo.Set(ctx, profileKey(id), data); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// Get returns the stored profile. An unset name falls back to the
// directory name of the student.
func (p *profileService) Get(ctx context.Context, s models.Student) (models.Profile, error) {
	prof, err := p.load(ctx, s.ID)
	if err != nil {
		return models.Profile{}, err
	}
	if prof.Name == "" {
		prof.Name = s.Name
	}
	return prof, nil
}

// ValidateProfile checks the editable fields: name, phone and email are
// required and the email must look like an address.
func ValidateProfile(prof models.Profile) error {
	if strings.TrimSpace(prof.Name) == "" {
		return common.ErrProfileNameEmpty
	}
	if strings.TrimSpace(prof.Phone) == "" {
		return fmt.Errorf("%w: phone number is required", common.ErrProfileInvalid)
	}
	email := strings.TrimSpace(prof.Email)
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrProfileInvalid)
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return fmt.Errorf("%w: %q is not a valid email address", common.ErrProfileInvalid, email)
	}
	return nil
}

// Update stores name, phone and email. The profile image is kept.
func (p *profileService) Update(ctx context.Context, studentID int64, in models.Profile) (models.Profile, error) {
	if err := ValidateProfile(in); err != nil {
		return models.Profile{}, err
	}

	prof, err := p.load(ctx, studentID)
	if err != nil {
		return models.Profile{}, err
	}
	prof.Name = strings.TrimSpace(in.Name)
	prof.Phone = strings.TrimSpace(in.Phone)
	prof.Email = strings.TrimSpace(in.Email)

	if err := p.save(ctx, studentID, prof); err != nil {
		return models.Profile{}, err
	}
	return prof, nil
}

// SetImage stores a reference (path or URL) to the profile picture; an
// empty ref removes it.
func (p *profileService) SetImage(ctx context.Context, studentID int64, ref string) error {
	prof, err := p.load(ctx, studentID)
	if err != nil {
		return err
	}
	prof.ProfileImage = strings.TrimSpace(ref)
	return p.save(ctx, studentID, prof)
}

// Clear blanks name and image, as done on logout. Phone and email stay.
func (p *profileService) Clear(ctx context.Context, studentID int64) error {
	prof, err := p.load(ctx, studentID)
	if err != nil {
		return err
	}
	if prof == (models.Profile{}) {
		return nil
	}
	prof.Name = ""
	prof.ProfileImage = ""
	return p.save(ctx, studentID, prof)
}
