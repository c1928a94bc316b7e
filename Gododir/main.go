package main

import (
	do "gopkg.in/godo.v2"
)

func tasks(p *do.Project) {
	do.Env = `
	PGCHAIN_DSN="dbname=pgchain_test user=pgchain password=!test host=localhost sslmode=disable"
	`

	generateTasks(p)

	p.Task("test", nil, func(c *do.Context) {
		c.Run("go test ./...")
	}).Src("**/*.go").Desc("Runs all tests. Runner tests need PGCHAIN_DSN")

	p.Task("test-dir", nil, func(c *do.Context) {
		dir := c.Args.Leftover()[0]
		c.Run("go test", do.M{"$in": dir})
	}).Desc("Runs the tests of a single package dir")

	p.Task("bench", nil, func(c *do.Context) {
		c.Bash("go test -run none -bench . -benchmem")
	}).Desc("Benchmarks chain rendering")

	p.Task("default", do.S{"keywords"}, nil)
}

func main() {
	do.Godo(tasks)
}
