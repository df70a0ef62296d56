package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Employee:
		o.printEmployee(v)
	case []Employee:
		o.printEmployees(v)
	case User:
		o.printUser(v)
	case TokenResult:
		fmt.Fprintf(o.w, "Token: %s\n", v.Token)
	case Post:
		o.printPost(v)
	case []Post:
		o.printPosts(v)
	case HealthResult:
		fmt.Fprintf(o.w, "OK: %t\n", v.OK)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Employee response type (matches API)
type Employee struct {
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Phone      Phone     `json:"phone"`
	Privileges string    `json:"privileges"`
	Favorites  Favorites `json:"favorites"`
	Finished   []int     `json:"finished"`
	Badges     []string  `json:"badges"`
	Points     []Points  `json:"points"`
}

// Phone response type
type Phone struct {
	Personal string `json:"personal"`
	Work     string `json:"work"`
	Ext      string `json:"ext"`
}

// Favorites response type
type Favorites struct {
	Artist string `json:"artist"`
	Food   string `json:"food"`
}

// Points response type
type Points struct {
	Points float64 `json:"points"`
	Bonus  float64 `json:"bonus"`
}

// User response type
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Bio           string    `json:"bio"`
	Active        bool      `json:"active"`
	AvatarURL     string    `json:"avatarUrl,omitempty"`
	ActivationURL string    `json:"activationUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TokenResult response type
type TokenResult struct {
	Token string `json:"token"`
}

// Post response type
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HealthResult response type
type HealthResult struct {
	OK bool `json:"ok"`
}

func (o *Output) printEmployee(e Employee) {
	fmt.Fprintf(o.w, "Employee: %s\n", e.Name)
	fmt.Fprintf(o.w, "Age: %d\n", e.Age)
	fmt.Fprintf(o.w, "Privileges: %s\n", e.Privileges)
	fmt.Fprintf(o.w, "Phone: %s (work %s ext %s)\n", e.Phone.Personal, e.Phone.Work, e.Phone.Ext)
	if len(e.Badges) > 0 {
		fmt.Fprintf(o.w, "Badges: %s\n", strings.Join(e.Badges, ", "))
	}
	for _, p := range e.Points {
		fmt.Fprintf(o.w, "Points: %g (bonus %g)\n", p.Points, p.Bonus)
	}
}

func (o *Output) printEmployees(list []Employee) {
	if len(list) == 0 {
		fmt.Fprintln(o.w, "No employees")
		return
	}
	for _, e := range list {
		fmt.Fprintf(o.w, "%-24s %3d  %-6s %s\n", e.Name, e.Age, e.Privileges, strings.Join(e.Badges, ","))
	}
}

func (o *Output) printUser(u User) {
	fmt.Fprintf(o.w, "User: %s (%s)\n", u.Name, u.ID)
	fmt.Fprintf(o.w, "Email: %s\n", u.Email)
	fmt.Fprintf(o.w, "Active: %t\n", u.Active)
	if u.Bio != "" {
		fmt.Fprintf(o.w, "Bio: %s\n", u.Bio)
	}
	if u.AvatarURL != "" {
		fmt.Fprintf(o.w, "Avatar: %s\n", u.AvatarURL)
	}
	if u.ActivationURL != "" {
		fmt.Fprintf(o.w, "Activate: %s\n", u.ActivationURL)
	}
}

func (o *Output) printPost(p Post) {
	fmt.Fprintf(o.w, "Post: %s\n", p.ID)
	fmt.Fprintf(o.w, "Title: %s\n", p.Title)
	fmt.Fprintf(o.w, "Author: %s\n", p.Author)
	fmt.Fprintf(o.w, "Updated: %s\n", p.UpdatedAt.Format(time.RFC3339))
	fmt.Fprintf(o.w, "\n%s\n", p.Text)
}

func (o *Output) printPosts(list []Post) {
	if len(list) == 0 {
		fmt.Fprintln(o.w, "No posts")
		return
	}
	for _, p := range list {
		fmt.Fprintf(o.w, "%s  %s  (%s)\n", p.ID, p.Title, p.Author)
	}
}
