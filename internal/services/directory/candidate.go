package directory

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/mcoot/staffapi/internal/model"
)

// maxSafeInteger is the largest integer a JSON number carries exactly
const maxSafeInteger = 1<<53 - 1

// Candidate is an employee record as submitted, before validation.
// Pointer fields are nil when the key was absent or null, and so are null
// array elements. Keys outside the schema are dropped while parsing.
type Candidate struct {
	Name       *string             `json:"name"`
	Age        *float64            `json:"age"`
	Phone      *PhoneCandidate     `json:"phone"`
	Privileges *string             `json:"privileges"`
	Favorites  *FavoritesCandidate `json:"favorites"`
	Finished   *[]*float64         `json:"finished"`
	Badges     *[]*string          `json:"badges"`
	Points     *[]PointsCandidate  `json:"points"`

	// typeErrors holds JSON type mismatches found while parsing, by field path
	typeErrors map[string]string
}

type PhoneCandidate struct {
	Personal *string `json:"personal"`
	Work     *string `json:"work"`
	Ext      *string `json:"ext"`
}

type FavoritesCandidate struct {
	Artist *string `json:"artist"`
	Food   *string `json:"food"`
}

type PointsCandidate struct {
	Points *float64 `json:"points"`
	Bonus  *float64 `json:"bonus"`
}

// ParseCandidate decodes a JSON object field by field. A body that is not
// a JSON object fails with a *model.ValidationError; a field holding the
// wrong JSON type is reported when the candidate is validated.
func ParseCandidate(data []byte) (*Candidate, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, model.NewFieldError("body", "must be a JSON object")
	}

	c := &Candidate{typeErrors: make(map[string]string)}
	c.decode(raw, "name", &c.Name)
	c.decode(raw, "age", &c.Age)
	c.decode(raw, "phone", &c.Phone)
	c.decode(raw, "privileges", &c.Privileges)
	c.decode(raw, "favorites", &c.Favorites)
	c.decode(raw, "finished", &c.Finished)
	c.decode(raw, "badges", &c.Badges)
	c.decode(raw, "points", &c.Points)
	return c, nil
}

func (c *Candidate) decode(raw map[string]json.RawMessage, key string, dst any) {
	value, ok := raw[key]
	if !ok {
		return
	}
	err := json.Unmarshal(value, dst)
	if err == nil {
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		path := key
		if typeErr.Field != "" {
			path = key + "." + typeErr.Field
		}
		c.typeErrors[path] = "must be " + describeType(typeErr.Type)
		return
	}
	c.typeErrors[key] = "is invalid"
}

func describeType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Float64:
		return "a number"
	case reflect.Slice:
		return "an array"
	case reflect.Struct:
		return "an object"
	default:
		return "a " + t.Kind().String()
	}
}

// Validate checks the candidate against the employee schema
func (c *Candidate) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.NotNil),
		validation.Field(&c.Age, validation.NotNil, validation.By(wholeNumber), validation.Min(0.0)),
		validation.Field(&c.Phone, validation.NotNil, validation.By(validatePhone)),
		validation.Field(&c.Privileges,
			validation.NotNil,
			validation.Required,
			validation.In(string(model.PrivilegeUser), string(model.PrivilegeAdmin)),
		),
		validation.Field(&c.Favorites, validation.NotNil, validation.By(validateFavorites)),
		validation.Field(&c.Finished, validation.NotNil, validation.By(validateFinished)),
		validation.Field(&c.Badges, validation.NotNil, validation.By(validateBadges)),
		validation.Field(&c.Points, validation.NotNil, validation.Required, validation.By(validatePoints)),
	)

	verr := model.NewValidationError(err)
	if len(c.typeErrors) == 0 {
		return verr
	}

	fields := make(map[string]string, len(c.typeErrors))
	var fieldErr *model.ValidationError
	if errors.As(verr, &fieldErr) {
		for k, v := range fieldErr.Fields {
			fields[k] = v
		}
	} else if verr != nil {
		return verr
	}
	// a mistyped field also fails NotNil; report the type instead
	for k, v := range c.typeErrors {
		fields[k] = v
	}
	return &model.ValidationError{Fields: fields}
}

// Employee validates the candidate and returns the coerced record
func (c *Candidate) Employee() (model.Employee, error) {
	if err := c.Validate(); err != nil {
		return model.Employee{}, err
	}

	e := model.Employee{
		Name: *c.Name,
		Age:  int(*c.Age),
		Phone: model.Phone{
			Personal: *c.Phone.Personal,
			Work:     *c.Phone.Work,
			Ext:      *c.Phone.Ext,
		},
		Privileges: model.Privilege(*c.Privileges),
		Favorites: model.Favorites{
			Artist: *c.Favorites.Artist,
			Food:   *c.Favorites.Food,
		},
		Finished: make([]int, len(*c.Finished)),
		Badges:   make([]string, len(*c.Badges)),
		Points:   make([]model.Points, len(*c.Points)),
	}
	for i, n := range *c.Finished {
		e.Finished[i] = int(*n)
	}
	for i, b := range *c.Badges {
		e.Badges[i] = *b
	}
	for i, p := range *c.Points {
		e.Points[i] = model.Points{Points: *p.Points, Bonus: *p.Bonus}
	}
	return e, nil
}

func wholeNumber(value any) error {
	f, ok := value.(*float64)
	if !ok || f == nil {
		return nil
	}
	if *f != math.Trunc(*f) || math.Abs(*f) > maxSafeInteger {
		return errors.New("must be an integer")
	}
	return nil
}

func validatePhone(value any) error {
	p, _ := value.(*PhoneCandidate)
	if p == nil {
		return nil
	}
	return validation.ValidateStruct(p,
		validation.Field(&p.Personal, validation.NotNil),
		validation.Field(&p.Work, validation.NotNil),
		validation.Field(&p.Ext, validation.NotNil),
	)
}

func validateFavorites(value any) error {
	f, _ := value.(*FavoritesCandidate)
	if f == nil {
		return nil
	}
	return validation.ValidateStruct(f,
		validation.Field(&f.Artist, validation.NotNil),
		validation.Field(&f.Food, validation.NotNil),
	)
}

func validateFinished(value any) error {
	finished, _ := value.(*[]*float64)
	if finished == nil {
		return nil
	}
	errs := validation.Errors{}
	for i, n := range *finished {
		if err := validation.Validate(n, validation.NotNil, validation.By(wholeNumber), validation.Min(0.0)); err != nil {
			errs[strconv.Itoa(i)] = err
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateBadges(value any) error {
	badges, _ := value.(*[]*string)
	if badges == nil {
		return nil
	}
	errs := validation.Errors{}
	for i, b := range *badges {
		if err := validation.Validate(b, validation.NotNil); err != nil {
			errs[strconv.Itoa(i)] = err
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validatePoints(value any) error {
	points, _ := value.(*[]PointsCandidate)
	if points == nil {
		return nil
	}
	errs := validation.Errors{}
	for i := range *points {
		p := &(*points)[i]
		err := validation.ValidateStruct(p,
			validation.Field(&p.Points, validation.NotNil),
			validation.Field(&p.Bonus, validation.NotNil),
		)
		if err != nil {
			errs[strconv.Itoa(i)] = err
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
