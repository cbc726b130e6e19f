// Command seedcoverage converts the coverage catalog Excel workbook into a
// SQL seed file. Reads the CoverageTypes and Questions sheets.
// Usage: go run ./cmd/seedcoverage <workbook.xlsx>
// Output: db/seeds/coverage_catalog.sql
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

type coverageType struct {
	id          string
	name        string
	description string
	limitAmount float64
}

type question struct {
	id             string
	coverageTypeID string
	prompt         string
	fieldName      string
	priority       int
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: seedcoverage <workbook.xlsx>")
	}
	xlsxPath := os.Args[1]
	outPath := "db/seeds/coverage_catalog.sql"

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	types, err := parseCoverageTypes(f)
	if err != nil {
		return fmt.Errorf("parse CoverageTypes sheet: %w", err)
	}
	log.Printf("CoverageTypes sheet: %d entries", len(types))

	questions, err := parseQuestions(f)
	if err != nil {
		return fmt.Errorf("parse Questions sheet: %w", err)
	}
	log.Printf("Questions sheet: %d entries", len(questions))

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if err := writeSeed(out, types, questions); err != nil {
		return fmt.Errorf("write seed file: %w", err)
	}

	log.Printf("Generated %d coverage types and %d questions in %s", len(types), len(questions), outPath)
	return nil
}

// parseCoverageTypes reads the CoverageTypes sheet: ID | Name | Description | Limit.
func parseCoverageTypes(f *excelize.File) ([]coverageType, error) {
	rows, err := f.GetRows("CoverageTypes")
	if err != nil {
		return nil, err
	}

	var types []coverageType
	seen := make(map[string]bool)
	for i, row := range rows {
		if i == 0 || len(row) < 3 {
			continue // header or incomplete row
		}
		id := strings.TrimSpace(row[0])
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		ct := coverageType{
			id:          id,
			name:        strings.TrimSpace(row[1]),
			description: strings.TrimSpace(row[2]),
		}
		if len(row) > 3 {
			if v, perr := strconv.ParseFloat(strings.TrimSpace(row[3]), 64); perr == nil {
				ct.limitAmount = v
			}
		}
		types = append(types, ct)
	}
	return types, nil
}

// parseQuestions reads the Questions sheet:
// ID | CoverageTypeID | Prompt | FieldName | Priority.
func parseQuestions(f *excelize.File) ([]question, error) {
	rows, err := f.GetRows("Questions")
	if err != nil {
		return nil, err
	}

	var questions []question
	seen := make(map[string]bool)
	for i, row := range rows {
		if i == 0 || len(row) < 4 {
			continue
		}
		id := strings.TrimSpace(row[0])
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		q := question{
			id:             id,
			coverageTypeID: strings.TrimSpace(row[1]),
			prompt:         strings.TrimSpace(row[2]),
			fieldName:      strings.TrimSpace(row[3]),
		}
		if len(row) > 4 {
			if v, perr := strconv.Atoi(strings.TrimSpace(row[4])); perr == nil {
				q.priority = v
			}
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func writeSeed(out *os.File, types []coverageType, questions []question) error {
	w := func(s string) error { _, werr := fmt.Fprintln(out, s); return werr }

	for _, line := range []string{
		"-- Coverage catalog seed data generated from Excel.",
		fmt.Sprintf("-- %d coverage types, %d questions.", len(types), len(questions)),
		"BEGIN;",
		"",
	} {
		if err := w(line); err != nil {
			return err
		}
	}

	for _, ct := range types {
		stmt := fmt.Sprintf(
			"INSERT INTO coverage_types (id, name, description, limit_amount, is_active) VALUES (%s, %s, %s, %.2f, TRUE) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description, limit_amount = EXCLUDED.limit_amount;",
			quote(ct.id), quote(ct.name), quote(ct.description), ct.limitAmount,
		)
		if err := w(stmt); err != nil {
			return err
		}
	}
	if err := w(""); err != nil {
		return err
	}
	for _, q := range questions {
		stmt := fmt.Sprintf(
			"INSERT INTO coverage_questions (id, coverage_type_id, prompt, field_name, priority) VALUES (%s, %s, %s, %s, %d) ON CONFLICT (id) DO UPDATE SET prompt = EXCLUDED.prompt, field_name = EXCLUDED.field_name, priority = EXCLUDED.priority;",
			quote(q.id), quote(q.coverageTypeID), quote(q.prompt), quote(q.fieldName), q.priority,
		)
		if err := w(stmt); err != nil {
			return err
		}
	}

	for _, line := range []string{"", "COMMIT;"} {
		if err := w(line); err != nil {
			return err
		}
	}
	return nil
}

// quote escapes a string for a SQL literal.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
