/*
Package sform is a declarative, configuration-driven form-state engine.

Given a static description of fields (initial values, per-field constraints and message
rules) plus form-wide constraints and message rules, it keeps the live values of a form and
the diagnostic messages derived from them as individual fields are edited.

# Concept

Every edit runs the same deterministic pipeline and produces a new immutable snapshot:

 1. The edited field's constraints transform the raw value, left to right.
 2. The form-wide constraints transform the whole value mapping, left to right.
 3. The form-wide message rules are tested against the settled values.
 4. Every field's own message rules are tested against its settled value.

The snapshot is committed in a single step, so readers never observe a partial edit. When a
field has both a message of its own and a form-wide one, its own message is shown.

Rendering, event binding and configuration authoring are left to collaborators. The module
ships some of them as adapters: a Go DSL (pkg/dsl), a YAML/JSON loader (pkg/adapters/file),
an interactive runner (pkg/runner), an HTTP API (pkg/adapters/http) and an MCP server
(pkg/adapters/mcp).

# Usage

	package main

	import (
		"fmt"
		"log"
		"strings"

		"github.com/aretw0/sform"
		"github.com/aretw0/sform/pkg/dsl"
	)

	func main() {
		b := dsl.New[string, string]("greeting")
		b.Field("name").
			Constrain(strings.TrimSpace).
			Message(func(v string) bool { return v == "" }, "Name is required")

		form, err := sform.New(b.MustBuild())
		if err != nil {
			log.Fatal(err)
		}

		_ = form.ApplyEdit("name", "  Ada ")
		fmt.Println(form.Field("name").Value) // Ada
	}

A Form is not safe for concurrent edits; serialize access when serving several clients.
*/
package sform
