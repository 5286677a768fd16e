package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/clinicbook/internal/client/models"
	"github.com/dmitrijs2005/clinicbook/internal/common"
)

var (
	errNoDoctor = errors.New("please select a doctor")
	errNoSlot   = errors.New("please select a time slot")
	errNoReason = errors.New("please select a reason for cancelling")
)

// Home greets the student and lists upcoming appointments.
func (a *App) Home(ctx context.Context) error {
	fmt.Fprintf(a.out, "Hello, %s\n", a.name)
	fmt.Fprintln(a.out, "Upcoming appointments:")
	a.printAppointments(models.FilterByStatus(a.store.List(), models.StatusUpcoming), models.StatusUpcoming)
	return nil
}

// List shows the bookings with the given status, upcoming by default.
func (a *App) List(ctx context.Context, args []string) error {
	st := models.StatusUpcoming
	if len(args) > 0 {
		st = models.Status(args[0])
		if !st.Valid() {
			return fmt.Errorf("unknown status %q, use upcoming, complete or cancelled", args[0])
		}
	}
	a.printAppointments(models.FilterByStatus(a.store.List(), st), st)
	return nil
}

func (a *App) printAppointments(list []models.Appointment, st models.Status) {
	if len(list) == 0 {
		fmt.Fprintf(a.out, "No %s appointments\n", st)
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDOCTOR\tSPECIALTY\tDATE\tTIME\tSTATUS")
	for _, x := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", x.ID, x.Doctor, x.Specialty, x.Date, x.Time, x.Status)
	}
	tw.Flush()
}

// Book asks for doctor (unless given as the first argument), date and time
// slot, and books an upcoming appointment.
func (a *App) Book(ctx context.Context, args []string) error {
	d, err := a.pickDoctor(args)
	if err != nil {
		return err
	}
	date, slot, err := a.pickDateAndSlot()
	if err != nil {
		return err
	}

	appt, _ := a.store.Add(ctx, models.NewAppointment{
		Doctor:    d.Name,
		Specialty: d.Specialty,
		Date:      date,
		Time:      slot,
	}, nil)
	fmt.Fprintf(a.out, "Appointment #%d booked with %s on %s, %s\n", appt.ID, appt.Doctor, appt.Date, appt.Time)
	return nil
}

// Rebook replaces a cancelled appointment by a new one with the same doctor.
func (a *App) Rebook(ctx context.Context, args []string) error {
	old, err := a.pickAppointment(args, "Appointment ID to rebook")
	if err != nil {
		return err
	}
	if old.Status != models.StatusCancelled {
		return fmt.Errorf("appointment %d is %s, only cancelled appointments can be rebooked", old.ID, old.Status)
	}

	fmt.Fprintf(a.out, "Rebooking with %s (%s)\n", old.Doctor, old.Specialty)
	date, slot, err := a.pickDateAndSlot()
	if err != nil {
		return err
	}

	oldID := old.ID
	appt, _ := a.store.Add(ctx, models.NewAppointment{
		Doctor:    old.Doctor,
		Specialty: old.Specialty,
		Date:      date,
		Time:      slot,
	}, &oldID)
	fmt.Fprintf(a.out, "Appointment #%d booked with %s on %s, %s\n", appt.ID, appt.Doctor, appt.Date, appt.Time)
	return nil
}

// Cancel cancels an upcoming appointment. A reason is required; it goes to
// the log only.
func (a *App) Cancel(ctx context.Context, args []string) error {
	appt, err := a.pickAppointment(args, "Appointment ID to cancel")
	if err != nil {
		return err
	}
	if appt.Status != models.StatusUpcoming {
		return fmt.Errorf("appointment %d is already %s", appt.ID, appt.Status)
	}

	i, err := GetChoice(a.reader, "Reason for cancelling", models.CancellationReasons, a.out)
	if err != nil {
		return err
	}
	if i < 0 {
		return errNoReason
	}

	a.store.Cancel(ctx, appt.ID)
	a.logger.Info(ctx, "appointment cancelled", "id", appt.ID, "reason", models.CancellationReasons[i])
	fmt.Fprintf(a.out, "Appointment #%d with %s cancelled\n", appt.ID, appt.Doctor)
	return nil
}

// Complete marks an appointment complete.
func (a *App) Complete(ctx context.Context, args []string) error {
	appt, err := a.pickAppointment(args, "Appointment ID to complete")
	if err != nil {
		return err
	}
	a.store.Complete(ctx, appt.ID)
	fmt.Fprintf(a.out, "Appointment #%d with %s marked complete\n", appt.ID, appt.Doctor)
	return nil
}

func (a *App) pickAppointment(args []string, prompt string) (models.Appointment, error) {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	} else {
		var err error
		if raw, err = GetSimpleText(a.reader, prompt, a.out); err != nil {
			return models.Appointment{}, err
		}
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return models.Appointment{}, fmt.Errorf("invalid appointment id %q", raw)
	}
	appt, ok := a.store.Get(id)
	if !ok {
		return models.Appointment{}, fmt.Errorf("appointment %d: %w", id, common.ErrNotFound)
	}
	return appt, nil
}

func (a *App) pickDoctor(args []string) (models.Doctor, error) {
	if len(args) > 0 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return models.Doctor{}, fmt.Errorf("invalid doctor %q", args[0])
		}
		d, ok := models.DoctorByID(id)
		if !ok {
			return models.Doctor{}, fmt.Errorf("doctor %d: %w", id, common.ErrNotFound)
		}
		return d, nil
	}

	names := make([]string, len(models.Doctors))
	for i, d := range models.Doctors {
		names[i] = fmt.Sprintf("%s (%s)", d.Name, d.Specialty)
	}
	i, err := GetChoice(a.reader, "Doctor", names, a.out)
	if err != nil {
		return models.Doctor{}, err
	}
	if i < 0 {
		return models.Doctor{}, errNoDoctor
	}
	return models.Doctors[i], nil
}

// pickDateAndSlot reads a DD/MM/YYYY date (empty means today) and a
// time slot, which is required.
func (a *App) pickDateAndSlot() (string, string, error) {
	raw, err := GetSimpleText(a.reader, "Date (DD/MM/YYYY, empty for today)", a.out)
	if err != nil {
		return "", "", err
	}
	date := models.FormatDate(a.now())
	if raw != "" {
		t, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			return "", "", fmt.Errorf("invalid date %q, use DD/MM/YYYY", raw)
		}
		date = models.FormatDate(t)
	}

	i, err := GetChoice(a.reader, "Time slot", models.TimeSlots, a.out)
	if err != nil {
		return "", "", err
	}
	if i < 0 {
		return "", "", errNoSlot
	}
	return date, models.TimeSlots[i], nil
}
