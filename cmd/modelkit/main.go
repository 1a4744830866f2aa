package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/modelkit"
	"gorm.io/modelkit/dataset"
	"gorm.io/modelkit/dialects/mysql"
	"gorm.io/modelkit/dialects/postgres"
	"gorm.io/modelkit/dialects/sqlite"
	"gorm.io/modelkit/logger"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	version string
	app     = kingpin.New("modelkit", "Bind a model to a table and describe it")

	dialect = app.Flag("dialect", "Database dialect: sqlite, postgres, mysql").
		Default("sqlite").
		Envar("MODELKIT_DIALECT").
		Enum("sqlite", "sqlite3", "postgres", "mysql")

	dsn = app.Flag("dsn", "Data source name, e.g.: file:app.db (set $MODELKIT_DSN to override)").
		Envar("MODELKIT_DSN").
		Required().
		String()

	modelName = app.Flag("model", "Model name, e.g.: LineItem").
		Short('m').
		String()

	table = app.Flag("table", "Table to bind instead of the implicit one").
		Short('t').
		String()

	primaryKey = app.Flag("pk", "Primary key columns, e.g.: order_id,line_no").
		String()

	lazy = app.Flag("lazy", "Defer schema introspection to first access").
		Default("false").
		Bool()

	logFormat = app.Flag("log", "Logger: logrus, zap, zerolog").
		Default("logrus").
		Enum("logrus", "zap", "zerolog")

	verbose = app.Flag("verbose", "Log executed SQL").
		Short('v').
		Default("false").
		Bool()

	count = app.Flag("count", "Print the number of rows").
		Default("false").
		Bool()
)

func main() {
	app.Version(version)
	app.HelpFlag.Short('h')
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if *modelName == "" && *table == "" {
		app.Fatalf("one of --model or --table is required")
	}

	app.FatalIfError(run(context.Background()), "modelkit")
}

func run(ctx context.Context) error {
	level := logger.Warn
	if *verbose {
		level = logger.Info
	}

	db, err := open(*dialect, *dsn, newLogger(*logFormat, level))
	if err != nil {
		return err
	}
	defer db.Close()

	var opts []modelkit.ConfigOption
	if *lazy {
		opts = append(opts, modelkit.WithLazySchemaLoading())
	}
	kit := modelkit.New(db, append(opts, modelkit.WithLogger(db.Logger))...)

	m, result := define(kit, *modelName, *table)
	if !result.Ok() {
		return fmt.Errorf("bind %s: %s: %v", m.Name, result.Status, result.Err)
	}

	if *primaryKey != "" {
		if err := m.SetPrimaryKey(strings.Split(*primaryKey, ",")...); err != nil {
			return err
		}
	}

	return describe(ctx, m, *count)
}

// --- Helpers ---
func open(dialect, dsn string, log logger.Interface) (*dataset.DB, error) {
	switch dialect {
	case "sqlite", "sqlite3":
		return sqlite.Open(dsn, log)
	case "postgres":
		return postgres.Open(dsn, log)
	case "mysql":
		return mysql.Open(dsn, log)
	default:
		return nil, fmt.Errorf("unsupported dialect %s", dialect)
	}
}

func newLogger(format string, level logger.LogLevel) logger.Interface {
	config := logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	}

	switch format {
	case "zap":
		return logger.NewZapLoggerWithConfig(config)
	case "zerolog":
		return logger.NewZerologConsoleLogger(config)
	default:
		l := logrus.New()
		l.SetOutput(os.Stderr)
		return logger.NewLogrusLogger(l, config)
	}
}

func define(kit *modelkit.DB, name, table string) (*modelkit.Model, modelkit.BindResult) {
	if table == "" {
		return kit.Define(name)
	}

	if name == "" {
		name = table
	}
	return kit.DefineTable(name, table)
}

func describe(ctx context.Context, m *modelkit.Model, count bool) error {
	table, err := m.TableName()
	if err != nil {
		return err
	}

	s, err := m.DBSchema(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("model:  %s\n", m.Name)
	fmt.Printf("table:  %s\n", table)
	fmt.Printf("pk:     %s\n", strings.Join(m.PrimaryKey(), ","))
	fmt.Printf("schema: %s\n", m.SchemaStatus())

	if count {
		n, err := m.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("rows:   %d\n", n)
	}

	columns, err := m.Columns(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\nCOLUMN\tTYPE\tDB TYPE\tNULL\tDEFAULT")
	for _, column := range columns {
		c := s[column]
		if c == nil {
			fmt.Fprintf(w, "%s\t\t\t\t\n", column)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%v\n", column, c.Type, c.DBType, c.AllowNull, c.Default)
	}
	return w.Flush()
}
