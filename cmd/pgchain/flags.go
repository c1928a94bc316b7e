package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/howeyc/gopass"
	"github.com/joho/godotenv"
)

// Connection are the options for building connections string.
type Connection struct {
	Database    string `arg:"-d,--database,env:PGCHAIN_DATABASE" help:"Database name" placeholder:"DB"`
	ExtraParams string `arg:"-e,--extraParams,env:PGCHAIN_EXTRA_PARAMS" help:"Extra connection params" placeholder:"QS"`
	Host        string `arg:"--host,env:PGCHAIN_HOST" default:"localhost" help:"Host"`
	Password    string `arg:"--password,env:PGCHAIN_PASSWORD"`
	AskPassword bool   `arg:"-W,--askPassword" help:"Prompt for the password"`
	Port        string `arg:"-p,--port,env:PGCHAIN_PORT" default:"5432"`
	User        string `arg:"-u,--user,env:PGCHAIN_USER" help:"User"`
}

// RenderCmd renders a template without connecting to a database.
type RenderCmd struct {
	Template    string   `arg:"positional,required" help:"SQL template, ? marks a slot and ?? is a literal ?"`
	Values      []string `arg:"positional" help:"Slot values"`
	Interpolate bool     `arg:"-i,--interpolate" help:"Inline values as SQL literals"`
	Dump        bool     `arg:"--dump" help:"Dump params with their Go types"`
}

// ExecCmd runs a template against the database.
type ExecCmd struct {
	Template string   `arg:"positional,required" help:"SQL template"`
	Values   []string `arg:"positional" help:"Slot values"`
	Output   string   `arg:"-o,--output" default:"table" help:"Output format (table|json)"`
}

// PingCmd checks the database is reachable.
type PingCmd struct {
	Retries uint64 `arg:"--retries" default:"5" help:"Retries with exponential backoff"`
}

// CLIArgs are the command line arguments.
type CLIArgs struct {
	Render *RenderCmd `arg:"subcommand:render" help:"Render a template to SQL and params"`
	Exec   *ExecCmd   `arg:"subcommand:exec" help:"Execute a template and print the rows"`
	Ping   *PingCmd   `arg:"subcommand:ping" help:"Pings the database (0 exit code means OK)"`

	Connection
}

// Version is printed by --version.
func (CLIArgs) Version() string {
	return "pgchain " + version
}

func loadEnvFiles() error {
	err := godotenv.Load()
	if err != nil {
		if os.IsNotExist(err) {
			// do nothing, it's not error if .env file does not exist
			return nil
		}
		return fmt.Errorf("cannot load .env file: %w", err)
	}
	return nil
}

var rootParser *arg.Parser

func parseArgs() (*CLIArgs, error) {
	err := loadEnvFiles()
	if err != nil {
		return nil, err
	}

	var args CLIArgs
	rootParser = arg.MustParse(&args)

	if args.AskPassword {
		fmt.Fprint(os.Stderr, "password: ")
		pass, err := gopass.GetPasswdMasked()
		if err != nil {
			return nil, err
		}
		args.Password = string(pass)
	}
	return &args, nil
}

// connectionString builds a libpq key/value connection string.
func connectionString(conn *Connection) string {
	pairs := []string{}
	add := func(key, value string) {
		if value == "" {
			return
		}
		value = strings.Replace(value, `\`, `\\`, -1)
		value = strings.Replace(value, `'`, `\'`, -1)
		pairs = append(pairs, fmt.Sprintf("%s='%s'", key, value))
	}
	add("dbname", conn.Database)
	add("user", conn.User)
	add("password", conn.Password)
	add("host", conn.Host)
	add("port", conn.Port)
	if conn.ExtraParams != "" {
		pairs = append(pairs, conn.ExtraParams)
	}
	return strings.Join(pairs, " ")
}
