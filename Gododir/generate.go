package main

import (
	"bytes"
	"io/ioutil"
	"sort"
	"text/template"

	do "gopkg.in/godo.v2"
)

var keywordTemplate = `
package pgchain

//// DO NOT EDIT, auto-generated: godo keywords

{{ range $idx, $kw := .keywords }}
	// {{$kw.Method}} appends {{$kw.SQL}} with a template or a parenthesized *Chain.
	func (c *Chain) {{$kw.Method}}(fragmentOrChain interface{}, args ...interface{}) *Chain {
		return c.keyword("{{$kw.SQL}}", fragmentOrChain, args)
	}
{{ end }}
`

type keyword struct {
	Method string
	SQL    string
}

// keywords are the methods sharing the template-or-chain form. Values,
// Union, UnionAll and Append are written by hand in keywords.go.
var keywords = []keyword{
	{"And", "AND"},
	{"As", "AS"},
	{"DoUpdateSet", "DO UPDATE SET"},
	{"From", "FROM"},
	{"GroupBy", "GROUP BY"},
	{"Having", "HAVING"},
	{"Join", "JOIN"},
	{"LeftJoin", "LEFT JOIN"},
	{"Limit", "LIMIT"},
	{"Offset", "OFFSET"},
	{"On", "ON"},
	{"OnConflict", "ON CONFLICT"},
	{"Or", "OR"},
	{"OrderBy", "ORDER BY"},
	{"Returning", "RETURNING"},
	{"Select", "SELECT"},
	{"Set", "SET"},
	{"Where", "WHERE"},
}

func generateTasks(p *do.Project) {
	p.Task("keywords", nil, func(c *do.Context) {
		t, err := template.New("keywords").Parse(keywordTemplate)
		c.Check(err, "Could not parse template")

		sorted := append([]keyword(nil), keywords...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Method < sorted[j].Method })

		var tmpl bytes.Buffer
		err = t.Execute(&tmpl, do.M{"keywords": sorted})
		c.Check(err, "Cannot execute template")

		err = ioutil.WriteFile("keywords_generated.go", tmpl.Bytes(), 0644)
		c.Check(err, "Cannot write keywords_generated.go")
		c.Run("go fmt keywords_generated.go")
	}).Desc("Generates chain keyword methods")
}
