package cli

import (
	"time"

	"github.com/alexanderramin/studyblocks/internal/config"
	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	WorkItems service.WorkItemService
	Events    service.EventService
	Schedule  service.ScheduleService
	Feedback  service.FeedbackService
	Learn     service.LearnService
	Plans     service.PlanService
	Import    service.ImportService

	Config *config.Config

	// Now defaults to time.Now.
	Now func() time.Time
	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) cfg() config.Config {
	if a.Config == nil {
		return config.Default()
	}
	return *a.Config
}

// loc is the zone used for display and for date-only flag values.
func (a *App) loc() *time.Location {
	loc, err := a.cfg().Schedule.Location()
	if err != nil {
		return time.UTC
	}
	return loc
}

func (a *App) constraints(days int) (domain.Constraints, error) {
	cfg := a.cfg()
	if days > 0 {
		cfg.Schedule.HorizonDays = days
	}
	return cfg.Constraints(a.now())
}

// NewRootCmd creates the top-level "studyblocks" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "studyblocks",
		Short:         "Adaptive study planner that turns tasks into time blocks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newItemCmd(app),
		newEventCmd(app),
		newScheduleCmd(app),
		newFeedbackCmd(app),
		newLearnCmd(app),
		newPrefsCmd(app),
		newPlanCmd(app),
		newImportCmd(app),
	)

	return root
}
