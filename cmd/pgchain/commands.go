package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/davecgh/go-spew/spew"
	"github.com/mgutz/pgchain"
	runner "github.com/mgutz/pgchain/sqlx-runner"
	"github.com/olekukonko/tablewriter"
)

var dumper = spew.ConfigState{
	Indent:                  " ",
	DisableCapacities:       true,
	DisablePointerAddresses: true,
}

// parseValue converts a command line value into the Go value bound to a slot.
func parseValue(s string) interface{} {
	switch s {
	case "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func parseValues(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = parseValue(v)
	}
	return args
}

func buildChain(template string, values []string, interpolate bool) *pgchain.Chain {
	return pgchain.SQL(template, parseValues(values)...).SetIsInterpolated(interpolate)
}

func render(l *Logger, cmd *RenderCmd) error {
	sql, args, err := buildChain(cmd.Template, cmd.Values, cmd.Interpolate).Interpolate()
	if err != nil {
		return err
	}

	l.Info(l.sql(sql) + "\n")
	for i, arg := range args {
		l.Info(l.param(fmt.Sprintf("$%d", i+1)) + fmt.Sprintf(" = %v (%T)\n", arg, arg))
	}
	if cmd.Dump {
		l.Info(dumper.Sdump(args))
	}
	return nil
}

func execTemplate(l *Logger, conn *Connection, cmd *ExecCmd) error {
	db, err := runner.NewDBFromString("postgres", connectionString(conn))
	if err != nil {
		return err
	}
	defer db.Close()

	return writeResult(l.out, db.Exec(buildChain(cmd.Template, cmd.Values, false)), cmd.Output)
}

func writeResult(w io.Writer, ex *runner.Execer, output string) error {
	switch output {
	case "json":
		b, err := ex.QueryJSON()
		if err == pgchain.ErrNotFound {
			b = []byte("[]")
		} else if err != nil {
			return err
		}
		var out bytes.Buffer
		if err := json.Indent(&out, b, "", "  "); err != nil {
			return err
		}
		out.WriteByte('\n')
		_, err = out.WriteTo(w)
		return err
	case "table":
		return writeTable(w, ex)
	}
	return fmt.Errorf("unknown output format %q", output)
}

func writeTable(w io.Writer, ex *runner.Execer) error {
	rows, err := ex.Queryx()
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		_, err = io.WriteString(w, "OK\n")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(columns)
	table.SetBorder(false)
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return err
		}
		table.Append(formatRow(values))
	}
	if err := rows.Err(); err != nil {
		return err
	}
	table.Render()
	return nil
}

func formatRow(values []interface{}) []string {
	row := make([]string, len(values))
	for i, v := range values {
		switch t := v.(type) {
		case nil:
			row[i] = "NULL"
		case []byte:
			row[i] = string(t)
		default:
			row[i] = fmt.Sprint(t)
		}
	}
	return row
}

func ping(l *Logger, conn *Connection, cmd *PingCmd) error {
	attempt := 0
	operation := func() error {
		attempt++
		db, err := runner.NewDBFromString("postgres", connectionString(conn))
		if err != nil {
			l.Info("ping attempt %d: %s\n", attempt, strings.TrimSpace(err.Error()))
			return err
		}
		return db.Close()
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), cmd.Retries)
	if err := backoff.Retry(operation, policy); err != nil {
		return err
	}
	l.Info("OK\n")
	return nil
}
