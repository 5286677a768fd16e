package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/clinicbook/internal/client/models"
)

func (a *App) Doctors(ctx context.Context) error {
	for _, d := range models.Doctors {
		fmt.Fprintf(a.out, "%d. %s, %s (%s)\n", d.ID, d.Name, d.Specialty, d.Hours)
	}
	return nil
}

func (a *App) Departments(ctx context.Context) error {
	for _, d := range models.Departments {
		fmt.Fprintf(a.out, "%d. %s\n", d.ID, d.Name)
	}
	return nil
}
