package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dmitrijs2005/clinicbook/internal/client/appointments"
	"github.com/dmitrijs2005/clinicbook/internal/client/models"
	"github.com/dmitrijs2005/clinicbook/internal/client/services"
	"github.com/dmitrijs2005/clinicbook/internal/common"
	"github.com/dmitrijs2005/clinicbook/internal/logging"
)

type App struct {
	authService    services.AuthService
	profileService services.ProfileService
	store          *appointments.Store
	logger         logging.Logger

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	student *models.Student
	name    string
}

func NewApp(auth services.AuthService, profiles services.ProfileService, store *appointments.Store,
	logger logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		authService:    auth,
		profileService: profiles,
		store:          store,
		logger:         logger,
		reader:         bufio.NewReader(in),
		out:            out,
		now:            time.Now,
	}
}

// Run resumes a saved session if there is one and runs the REPL until the
// user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to UG Clinic (type 'help' for commands)")

	s, err := a.authService.Resume(ctx)
	switch {
	case err == nil:
		a.signIn(ctx, s)
	case errors.Is(err, common.ErrNoSession):
	default:
		a.logger.Info(ctx, "saved session not resumed", "err", err)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.student != nil
}

func (a *App) getStatus() string {
	if a.student == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", a.name)
}

func (a *App) signIn(ctx context.Context, s models.Student) {
	a.student = &s
	a.name = s.Name
	if prof, err := a.profileService.Get(ctx, s); err != nil {
		a.logger.Warn(ctx, "profile load failed", "student", s.ID, "err", err)
	} else {
		a.name = prof.Name
	}

	a.store.SetUser(ctx, strconv.FormatInt(s.ID, 10))
	fmt.Fprintf(a.out, "Welcome, %s!\n", a.name)
}
