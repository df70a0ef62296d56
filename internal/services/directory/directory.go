package directory

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/mcoot/staffapi/internal/model"
)

// PageSize is the fixed number of records in one page of List
const PageSize = 2

// Filter selects and pages records for List
type Filter struct {
	// UsersOnly keeps only records with the "user" privilege.
	// There is no admin-only counterpart.
	UsersOnly bool

	// Badge keeps only records carrying this exact badge; empty means no filter
	Badge string

	// Page selects a PageSize window, 1-based. Anything below 1 returns
	// the whole filtered list.
	Page int
}

// Directory is the in-memory employee collection. Records are kept in
// insertion order and are never modified once added.
type Directory struct {
	logger *slog.Logger

	mu        sync.RWMutex
	employees []model.Employee
}

// New creates an empty Directory
func New(logger *slog.Logger) *Directory {
	return &Directory{
		logger:    logger,
		employees: make([]model.Employee, 0),
	}
}

// Len returns the number of records
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.employees)
}

// List applies the privilege filter, then the badge filter, then
// pagination. The result is never nil.
func (d *Directory) List(f Filter) []model.Employee {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]model.Employee, 0, len(d.employees))
	for _, e := range d.employees {
		if f.UsersOnly && e.Privileges != model.PrivilegeUser {
			continue
		}
		if f.Badge != "" && !e.HasBadge(f.Badge) {
			continue
		}
		result = append(result, e.Clone())
	}

	return paginate(result, f.Page)
}

func paginate(list []model.Employee, page int) []model.Employee {
	if page < 1 {
		return list
	}
	start := PageSize * (page - 1)
	if start >= len(list) {
		return []model.Employee{}
	}
	end := min(start+PageSize, len(list))
	return list[start:end]
}

// Oldest returns the record with the greatest age, the first one on ties
func (d *Directory) Oldest() (model.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.employees) == 0 {
		return model.Employee{}, model.ErrEmployeeNotFound
	}
	oldest := d.employees[0]
	for _, e := range d.employees[1:] {
		if e.Age > oldest.Age {
			oldest = e
		}
	}
	return oldest.Clone(), nil
}

// FindByName returns the first record whose name matches case-insensitively
func (d *Directory) FindByName(name string) (model.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, e := range d.employees {
		if strings.EqualFold(e.Name, name) {
			return e.Clone(), nil
		}
	}
	return model.Employee{}, model.ErrEmployeeNotFound
}

// Append validates a candidate and adds it to the end of the directory.
// On a *model.ValidationError nothing is added.
func (d *Directory) Append(c *Candidate) (model.Employee, error) {
	employee, err := c.Employee()
	if err != nil {
		return model.Employee{}, err
	}

	d.mu.Lock()
	d.employees = append(d.employees, employee)
	count := len(d.employees)
	d.mu.Unlock()

	d.logger.Info("employee added",
		slog.String("name", employee.Name),
		slog.Int("count", count),
	)
	return employee.Clone(), nil
}
