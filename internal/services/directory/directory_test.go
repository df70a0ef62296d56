package directory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/staffapi/internal/model"
	"github.com/mcoot/staffapi/internal/testutil"
)

const seedPath = "../../../data/employees.json"

const aliceJSON = `{
	"name": "Alice",
	"age": 29,
	"phone": {"personal": "555-111-111", "work": "555-222-222", "ext": "1234"},
	"privileges": "user",
	"favorites": {"artist": "Van Gogh", "food": "tacos"},
	"finished": [1, 2],
	"badges": ["blue"],
	"points": [{"points": 90, "bonus": 10}]
}`

type DirectorySuite struct {
	suite.Suite
	dir *Directory
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) SetupTest() {
	s.dir = New(testutil.NopLogger())
	s.Require().NoError(s.dir.LoadFromFile(seedPath))
	s.Require().Equal(5, s.dir.Len())
}

func names(list []model.Employee) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Name
	}
	return out
}

func (s *DirectorySuite) mustAppend(body string) model.Employee {
	c, err := ParseCandidate([]byte(body))
	s.Require().NoError(err)
	e, err := s.dir.Append(c)
	s.Require().NoError(err)
	return e
}

func (s *DirectorySuite) TestListAllInSeedOrder() {
	list := s.dir.List(Filter{})
	s.Equal([]string{
		"Leanne Graham", "Ervin Howell", "Clementine Bauch", "Patricia Lebsack", "Chelsey Dietrich",
	}, names(list))
}

func (s *DirectorySuite) TestListUsersOnly() {
	list := s.dir.List(Filter{UsersOnly: true})
	s.Equal([]string{"Leanne Graham", "Clementine Bauch", "Patricia Lebsack"}, names(list))
	for _, e := range list {
		s.Equal(model.PrivilegeUser, e.Privileges)
	}
}

func (s *DirectorySuite) TestListByBadge() {
	list := s.dir.List(Filter{Badge: "black"})
	s.Equal([]string{"Leanne Graham", "Ervin Howell", "Patricia Lebsack"}, names(list))
}

func (s *DirectorySuite) TestBadgeMatchIsCaseSensitive() {
	s.Empty(s.dir.List(Filter{Badge: "Black"}))
}

func (s *DirectorySuite) TestUnknownBadgeReturnsEmptyNotNil() {
	list := s.dir.List(Filter{Badge: "purple"})
	s.NotNil(list)
	s.Empty(list)
}

func (s *DirectorySuite) TestFiltersCompose() {
	list := s.dir.List(Filter{UsersOnly: true, Badge: "black"})
	s.Equal([]string{"Leanne Graham", "Patricia Lebsack"}, names(list))
}

func (s *DirectorySuite) TestPaginationWindows() {
	s.Equal([]string{"Leanne Graham", "Ervin Howell"}, names(s.dir.List(Filter{Page: 1})))
	s.Equal([]string{"Clementine Bauch", "Patricia Lebsack"}, names(s.dir.List(Filter{Page: 2})))
	s.Equal([]string{"Chelsey Dietrich"}, names(s.dir.List(Filter{Page: 3})))
	s.Empty(s.dir.List(Filter{Page: 4}))
	s.NotNil(s.dir.List(Filter{Page: 4}))
}

func (s *DirectorySuite) TestNonPositivePageReturnsEverything() {
	for _, page := range []int{0, -1, -20} {
		s.Len(s.dir.List(Filter{Page: page}), 5, "page %d", page)
	}
}

func (s *DirectorySuite) TestPaginationAppliesAfterFilters() {
	list := s.dir.List(Filter{UsersOnly: true, Page: 2})
	s.Equal([]string{"Patricia Lebsack"}, names(list))
}

func (s *DirectorySuite) TestPageMatchesSliceOfFilteredList() {
	full := s.dir.List(Filter{Badge: "black"})
	for page := 1; page <= 3; page++ {
		start := min(PageSize*(page-1), len(full))
		end := min(start+PageSize, len(full))
		s.Equal(names(full[start:end]), names(s.dir.List(Filter{Badge: "black", Page: page})))
	}
}

func (s *DirectorySuite) TestListReturnsCopies() {
	list := s.dir.List(Filter{})
	list[0].Badges[0] = "mutated"
	list[0].Name = "mutated"

	again := s.dir.List(Filter{})
	s.Equal("Leanne Graham", again[0].Name)
	s.Equal("blue", again[0].Badges[0])
}

func (s *DirectorySuite) TestOldestFirstWinsOnTie() {
	oldest, err := s.dir.Oldest()
	s.Require().NoError(err)
	s.Equal("Ervin Howell", oldest.Name)
	s.Equal(44, oldest.Age)

	for _, e := range s.dir.List(Filter{}) {
		s.GreaterOrEqual(oldest.Age, e.Age)
	}
}

func (s *DirectorySuite) TestOldestOnEmptyDirectory() {
	_, err := New(testutil.NopLogger()).Oldest()
	s.ErrorIs(err, model.ErrEmployeeNotFound)
}

func (s *DirectorySuite) TestFindByNameIgnoresCase() {
	for _, name := range []string{"patricia lebsack", "PATRICIA LEBSACK", "Patricia Lebsack"} {
		e, err := s.dir.FindByName(name)
		s.Require().NoError(err, name)
		s.Equal("Patricia Lebsack", e.Name)
	}
}

func (s *DirectorySuite) TestFindByNameNotFound() {
	_, err := s.dir.FindByName("NoExiste")
	s.ErrorIs(err, model.ErrEmployeeNotFound)
}

func (s *DirectorySuite) TestFindByNameReturnsFirstDuplicate() {
	s.mustAppend(aliceJSON)
	second := s.mustAppend(`{"name":"ALICE","age":50,"phone":{"personal":"","work":"","ext":""},
		"privileges":"admin","favorites":{"artist":"","food":""},"finished":[],"badges":[],
		"points":[{"points":1,"bonus":0}]}`)
	s.Equal("ALICE", second.Name)

	e, err := s.dir.FindByName("alice")
	s.Require().NoError(err)
	s.Equal(29, e.Age)
}

func (s *DirectorySuite) TestAppendValidRecord() {
	e := s.mustAppend(aliceJSON)

	s.Equal(6, s.dir.Len())
	s.Equal("Alice", e.Name)
	s.Equal(29, e.Age)
	s.Equal(model.Phone{Personal: "555-111-111", Work: "555-222-222", Ext: "1234"}, e.Phone)
	s.Equal([]int{1, 2}, e.Finished)
	s.Equal([]model.Points{{Points: 90, Bonus: 10}}, e.Points)

	found, err := s.dir.FindByName("alice")
	s.Require().NoError(err)
	s.Equal(e, found)

	all := s.dir.List(Filter{})
	s.Equal("Alice", all[len(all)-1].Name)
}

func (s *DirectorySuite) TestAppendInvalidLeavesDirectoryUnchanged() {
	c, err := ParseCandidate([]byte(`{"foo":"bar"}`))
	s.Require().NoError(err)

	_, err = s.dir.Append(c)
	var verr *model.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "name")
	s.Contains(verr.Fields, "points")
	s.Equal(5, s.dir.Len())
}

func (s *DirectorySuite) TestConcurrentAppendAndRead() {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c, _ := ParseCandidate([]byte(aliceJSON))
			_, _ = s.dir.Append(c)
		}()
		go func() {
			defer wg.Done()
			_ = s.dir.List(Filter{UsersOnly: true, Page: 1})
			_, _ = s.dir.Oldest()
		}()
	}
	wg.Wait()
	s.Equal(25, s.dir.Len())
}

func (s *DirectorySuite) TestLoadFromMissingFile() {
	err := New(testutil.NopLogger()).LoadFromFile(filepath.Join(s.T().TempDir(), "missing.json"))
	s.ErrorIs(err, os.ErrNotExist)
}

func (s *DirectorySuite) TestLoadRejectsMalformedFile() {
	path := filepath.Join(s.T().TempDir(), "employees.json")
	s.Require().NoError(os.WriteFile(path, []byte(`{"not":"an array"}`), 0o600))

	s.Error(New(testutil.NopLogger()).LoadFromFile(path))
}

func (s *DirectorySuite) TestLoadRejectsInvalidRecordAtomically() {
	d := New(testutil.NopLogger())
	err := d.LoadRecords([]json.RawMessage{
		json.RawMessage(aliceJSON),
		json.RawMessage(`{"name":"Bob"}`),
	})

	var verr *model.ValidationError
	s.ErrorAs(err, &verr)
	s.Contains(err.Error(), "record 1")
	s.Equal(0, d.Len())
}
