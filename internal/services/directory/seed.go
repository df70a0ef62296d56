package directory

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mcoot/staffapi/internal/model"
)

// LoadFromFile seeds the directory from a JSON array of employee records.
// Every record is validated; the first invalid record aborts the load and
// nothing is added.
func (d *Directory) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse employee seed %s: %w", path, err)
	}

	if err := d.LoadRecords(records); err != nil {
		return fmt.Errorf("employee seed %s: %w", path, err)
	}
	return nil
}

// LoadRecords validates raw JSON records and appends them in order
func (d *Directory) LoadRecords(records []json.RawMessage) error {
	employees := make([]model.Employee, 0, len(records))
	for i, raw := range records {
		c, err := ParseCandidate(raw)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		e, err := c.Employee()
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		employees = append(employees, e)
	}

	d.mu.Lock()
	d.employees = append(d.employees, employees...)
	count := len(d.employees)
	d.mu.Unlock()

	d.logger.Info("employee directory seeded",
		slog.Int("loaded", len(employees)),
		slog.Int("count", count),
	)
	return nil
}
