package main

import (
	"context"
	"fmt"

	"github.com/amirx1991/crm-sub001/internal/auth"
	"github.com/amirx1991/crm-sub001/internal/guard"
	"github.com/amirx1991/crm-sub001/internal/httpclient"
	"github.com/amirx1991/crm-sub001/internal/logger"
	"github.com/amirx1991/crm-sub001/internal/models"
	"github.com/amirx1991/crm-sub001/internal/notify"
	"github.com/amirx1991/crm-sub001/internal/session"
)

// realmPaths are the sign-in and landing routes per realm
var realmPaths = map[models.Realm]guard.RealmPaths{
	models.RealmStaff:   {SignIn: "/staff/sign-in", Landing: "/staff/studies"},
	models.RealmPatient: {SignIn: "/patient/sign-in", Landing: "/patient/visits"},
}

// view is a route declaration plus the backend resource rendered for it.
// Routes are external to the session core; this table is the CLI's.
type view struct {
	Route      guard.Route
	PublicOnly bool

	// Resource is the API path fetched when the route renders
	Resource string
}

var views = []view{
	{
		Route: guard.Route{
			Path:          "/staff/studies",
			Realm:         models.RealmStaff,
			RequiredRoles: []models.Role{models.RoleAdmin, models.RoleUser},
		},
		Resource: "/studies",
	},
	{
		Route: guard.Route{
			Path:          "/staff/settings",
			Realm:         models.RealmStaff,
			RequiredRoles: []models.Role{models.RoleAdmin},
		},
		Resource: "/settings",
	},
	{
		Route: guard.Route{
			Path:          "/patient/visits",
			Realm:         models.RealmPatient,
			RequiredRoles: []models.Role{models.RolePatient},
		},
		Resource: "/visits",
	},
	{
		Route:      guard.Route{Path: "/staff/sign-in", Realm: models.RealmStaff},
		PublicOnly: true,
	},
	{
		Route:      guard.Route{Path: "/patient/sign-in", Realm: models.RealmPatient},
		PublicOnly: true,
	},
}

// App holds the wired portal core for the CLI commands
type App struct {
	Config  *Config
	Logger  logger.Logger
	Store   session.Store
	Client  *httpclient.Client
	Staff   *auth.StaffController
	Patient *auth.PatientController
	Session *auth.AuthSession
	Guard   *guard.Guard

	resolver *guard.Resolver
}

func NewApp(c *Config) (*App, error) {
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	sessionPath, err := c.SessionFilePath()
	if err != nil {
		return nil, fmt.Errorf("error resolving session file location: %w", err)
	}

	store, err := session.NewFileStore(sessionPath)
	if err != nil {
		return nil, fmt.Errorf("error loading persisted session: %w", err)
	}

	notifier := &notify.ConsoleNotifier{Logger: log}
	client := httpclient.New(c.APIAddr, store, notifier, log)

	patient := auth.NewPatient(client, store, log)
	patient.CodeLength = c.OtpLength

	resolver := guard.NewResolver(client, store, log)

	return &App{
		Config:   c,
		Logger:   log,
		Store:    store,
		Client:   client,
		Staff:    auth.NewStaff(client, store, log),
		Patient:  patient,
		Session:  auth.NewAuthSession(client, store, log),
		Guard:    guard.New(store, realmPaths, resolver),
		resolver: resolver,
	}, nil
}

// Resolve runs the one-time session-resolution step before navigation
func (a *App) Resolve(ctx context.Context) {
	a.resolver.Resolve(ctx)
}

// findView resolves a navigation path against the route table
func findView(path string) (view, bool) {
	for _, v := range views {
		if v.Route.Path == path {
			return v, true
		}
	}
	return view{}, false
}
