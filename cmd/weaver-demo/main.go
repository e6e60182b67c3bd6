package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/baikenlabs/weaver"
	"github.com/baikenlabs/weaver/logger"
)

// Identifiers are declared once, at package level, the way applications
// are expected to wire weaver.
var (
	Env      = weaver.Token("env")
	Config   = weaver.Define("Config", newConfig).Deps(Env)
	Database = weaver.Define("Database", newDatabase).Deps(Config)
	Service  = weaver.Define("Service", newService).Deps(Config, Database)

	Exporter = weaver.Define("Exporter", newExporter).Deps(Config)

	// Report declares an Export stub; the binding routes calls to the
	// Exporter's Write method, resolved only when the first call happens.
	Report = weaver.Define("Report", newReport).Deps(Service).
		Redirect("Export", loadExporter, "Write")
)

// loadExporter stands in for a lazily loaded exporter module: the target
// def is produced when a redirected call first needs it, never earlier.
func loadExporter() (*weaver.Def, error) {
	return Exporter, nil
}

type appConfig struct {
	Name string
	Env  string
}

func newConfig(env map[string]string) *appConfig {
	return &appConfig{Name: env["APP_NAME"], Env: env["APP_ENV"]}
}

type database struct {
	dsn string
}

func newDatabase(cfg *appConfig) *database {
	return &database{dsn: "postgres://" + cfg.Env + "-db:5432/app"}
}

func (d *database) Source() string { return d.dsn }

type reportService struct {
	cfg *appConfig
	db  *database
}

func newService(cfg *appConfig, db *database) *reportService {
	return &reportService{cfg: cfg, db: db}
}

func (s *reportService) Describe() string {
	return fmt.Sprintf("%s running in %s against %s", s.cfg.Name, s.cfg.Env, s.db.Source())
}

type report struct {
	svc *reportService
}

func newReport(svc *reportService) *report {
	return &report{svc: svc}
}

// Export is a placeholder; calls are redirected to Exporter.Write.
func (r *report) Export(dest string) string {
	return "unreachable stub for " + dest
}

func (r *report) Summary() string {
	return "summary of " + r.svc.Describe()
}

type exporter struct {
	cfg *appConfig
}

func newExporter(cfg *appConfig) *exporter {
	return &exporter{cfg: cfg}
}

func (e *exporter) Write(dest string) string {
	return fmt.Sprintf("exported %s report to %s", e.cfg.Env, dest)
}

func run(envFile string) error {
	// Non-fatal: .env may not exist outside local development.
	_ = godotenv.Load(envFile)

	log, err := logger.NewDevelopment()
	if err != nil {
		return err
	}
	defer log.Sync()

	c := weaver.New(weaver.WithLogger(log))

	app := weaver.NewModule("app",
		weaver.ProvideValue(Env, map[string]string{
			"APP_NAME": envOr("APP_NAME", "weaver-demo"),
			"APP_ENV":  envOr("APP_ENV", "dev"),
		}),
		weaver.Provide(Config),
		weaver.Provide(Database),
		weaver.Provide(Service),
	)
	reporting := weaver.NewModule("reporting",
		weaver.Provide(Exporter),
		weaver.Provide(Report),
	)
	if err := c.Apply(app, reporting); err != nil {
		return err
	}

	// The end-to-end chain: token → config → database → service.
	svc, err := weaver.Resolve[*reportService](c, Service)
	if err != nil {
		return err
	}
	fmt.Println(svc.Describe())

	// Redirection: Export is handled by the lazily resolved Exporter,
	// Summary still reaches the report itself.
	rep, err := weaver.Resolve[*weaver.Redirector](c, Report)
	if err != nil {
		return err
	}

	exported, err := rep.Call("Export", "s3://reports/q3")
	if err != nil {
		return err
	}
	fmt.Println(exported)

	summary, err := rep.Call("Summary")
	if err != nil {
		return err
	}
	fmt.Println(summary)

	// Overlay: a clone with a mock database, leaving the container above
	// untouched.
	test := c.Clone()
	if err := test.RegisterMock(Database, &database{dsn: "sqlite://memory"}); err != nil {
		return err
	}

	mocked, err := weaver.Resolve[*reportService](test, Service, weaver.WithOverlay())
	if err != nil {
		return err
	}
	fmt.Println("with overlay:", mocked.Describe())

	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	envFile := flag.String("env", ".env", "path to the dotenv file")
	flag.Parse()

	if err := run(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, "weaver-demo:", err)
		os.Exit(1)
	}
}
