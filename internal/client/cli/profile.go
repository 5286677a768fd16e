package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/clinicbook/internal/client/models"
)

func (a *App) Profile(ctx context.Context) error {
	prof, err := a.profileService.Get(ctx, *a.student)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Name:       %s\n", prof.Name)
	fmt.Fprintf(a.out, "Student ID: %d\n", a.student.ID)
	fmt.Fprintf(a.out, "Phone:      %s\n", orDash(prof.Phone))
	fmt.Fprintf(a.out, "Email:      %s\n", orDash(prof.Email))
	fmt.Fprintf(a.out, "Image:      %s\n", orDash(prof.ProfileImage))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// EditProfile prompts for every field; an empty answer keeps the current
// value and "-" removes the image.
func (a *App) EditProfile(ctx context.Context) error {
	cur, err := a.profileService.Get(ctx, *a.student)
	if err != nil {
		return err
	}

	ask := func(label, current string) (string, error) {
		v, err := GetSimpleText(a.reader, fmt.Sprintf("%s [%s]", label, current), a.out)
		if err != nil || v == "" {
			return current, err
		}
		return v, nil
	}

	next := cur
	if next.Name, err = ask("Full name", cur.Name); err != nil {
		return err
	}
	if next.Phone, err = ask("Phone number", cur.Phone); err != nil {
		return err
	}
	if next.Email, err = ask("Email", cur.Email); err != nil {
		return err
	}
	image, err := ask("Profile image path or URL (- to remove)", cur.ProfileImage)
	if err != nil {
		return err
	}
	if image == "-" {
		image = ""
	}

	saved, err := a.profileService.Update(ctx, a.student.ID, models.Profile{Name: next.Name, Phone: next.Phone, Email: next.Email})
	if err != nil {
		return err
	}
	if image != cur.ProfileImage {
		if err := a.profileService.SetImage(ctx, a.student.ID, image); err != nil {
			return err
		}
	}

	a.name = saved.Name
	fmt.Fprintln(a.out, "Profile updated")
	return nil
}
