package model

import "slices"

// Privilege is the role tag carried by an employee record
type Privilege string

const (
	PrivilegeUser  Privilege = "user"
	PrivilegeAdmin Privilege = "admin"
)

// Phone holds an employee's contact numbers
type Phone struct {
	Personal string `json:"personal"`
	Work     string `json:"work"`
	Ext      string `json:"ext"`
}

// Favorites holds an employee's favourite things
type Favorites struct {
	Artist string `json:"artist"`
	Food   string `json:"food"`
}

// Points is a single scored entry in an employee's points history
type Points struct {
	Points float64 `json:"points"`
	Bonus  float64 `json:"bonus"`
}

// Employee is a validated directory record. Records are never mutated once
// they are in the directory.
type Employee struct {
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Phone      Phone     `json:"phone"`
	Privileges Privilege `json:"privileges"`
	Favorites  Favorites `json:"favorites"`
	Finished   []int     `json:"finished"`
	Badges     []string  `json:"badges"`
	Points     []Points  `json:"points"`
}

// HasBadge reports whether the employee carries the exact badge value
func (e Employee) HasBadge(badge string) bool {
	return slices.Contains(e.Badges, badge)
}

// Clone returns a deep copy so callers can't reach into directory storage
func (e Employee) Clone() Employee {
	c := e
	c.Finished = cloneNonNil(e.Finished)
	c.Badges = cloneNonNil(e.Badges)
	c.Points = cloneNonNil(e.Points)
	return c
}

// cloneNonNil keeps empty sequences as [] rather than null in JSON
func cloneNonNil[T any](s []T) []T {
	c := make([]T, len(s))
	copy(c, s)
	return c
}
