package website

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"git.retroherna.org/rh/rhforum/src/forumdata"
	"git.retroherna.org/rh/rhforum/src/models"
)

/*
The JSON shapes the API responds with. These are deliberately separate from
the db models so that the wire format can stay stable while the schema
moves, and so that nothing secret (password hashes, emails) leaks by
accident.
*/

type UserJson struct {
	ID    int    `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`

	Homepage  string `json:"homepage,omitempty"`
	AvatarUrl string `json:"avatarUrl,omitempty"`
	Profile   string `json:"profile,omitempty"`

	Registered time.Time `json:"registered"`
	LastSeen   time.Time `json:"lastSeen"`

	Groups []GroupJson `json:"groups,omitempty"`

	// Only filled in for the user themselves or for admins.
	Email string `json:"email,omitempty"`
}

type GroupJson struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol,omitempty"`
	Title   string `json:"title,omitempty"`
	Rank    int    `json:"rank"`
	Display bool   `json:"display"`
}

type CategoryJson struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	GroupID  *int   `json:"groupId,omitempty"`
}

type ForumJson struct {
	ID          int    `json:"id"`
	Identifier  string `json:"identifier"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Position    int    `json:"position"`
	Trash       bool   `json:"trash,omitempty"`

	Category *CategoryJson `json:"category,omitempty"`
}

type ThreadJson struct {
	ID      int       `json:"id"`
	ForumID int       `json:"forumId"`
	Name    string    `json:"name"`
	Author  *UserJson `json:"author,omitempty"`

	Timestamp time.Time `json:"timestamp"`
	Laststamp time.Time `json:"laststamp"`

	Pinned   bool `json:"pinned,omitempty"`
	Locked   bool `json:"locked,omitempty"`
	Archived bool `json:"archived,omitempty"`

	WikiArticle *string `json:"wikiArticle,omitempty"`

	// Read-tracking state for the requesting user; absent for guests.
	Unread *UnreadJson `json:"unread,omitempty"`
}

type UnreadJson struct {
	Kind           string `json:"kind"` // "none", "all", "part"
	ResumeAtPostID *int   `json:"resumeAtPostId,omitempty"`
	NumUnread      *int   `json:"numUnread,omitempty"`
}

type PostJson struct {
	ID        int       `json:"id"`
	ThreadID  int       `json:"threadId"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
	Deleted   bool      `json:"deleted,omitempty"`

	Author *UserJson `json:"author,omitempty"`

	Editstamp *time.Time `json:"editstamp,omitempty"`
	Editor    *UserJson  `json:"editor,omitempty"`
}

type TaskJson struct {
	ID          int        `json:"id"`
	Text        string     `json:"text"`
	CreatedTime time.Time  `json:"createdTime"`
	DueTime     *time.Time `json:"dueTime,omitempty"`
	Status      *string    `json:"status,omitempty"`
	AuthorID    *int       `json:"authorId,omitempty"`
	UserID      *int       `json:"userId,omitempty"`
}

func UserToJson(u *models.User, includeEmail bool) *UserJson {
	if u == nil {
		return nil
	}
	result := &UserJson{
		ID:         u.ID,
		Login:      u.Login,
		Name:       u.Name(),
		Title:      u.Title(),
		Homepage:   u.Homepage,
		AvatarUrl:  u.AvatarUrl,
		Profile:    u.Profile,
		Registered: u.Registered,
		LastSeen:   u.LastSeen,
	}
	for _, g := range u.Groups {
		result.Groups = append(result.Groups, GroupToJson(g))
	}
	if includeEmail {
		result.Email = u.Email
	}
	return result
}

func GroupToJson(g *models.Group) GroupJson {
	return GroupJson{
		ID:      g.ID,
		Name:    g.Name,
		Symbol:  g.Symbol,
		Title:   g.GroupTitle,
		Rank:    g.Rank,
		Display: g.Display,
	}
}

func CategoryToJson(cat *models.Category) *CategoryJson {
	if cat == nil {
		return nil
	}
	return &CategoryJson{
		ID:       cat.ID,
		Name:     cat.Name,
		Position: cat.Position,
		GroupID:  cat.GroupID,
	}
}

func ForumToJson(f *models.Forum) ForumJson {
	return ForumJson{
		ID:          f.ID,
		Identifier:  f.Identifier,
		Name:        f.Name,
		Description: f.Description,
		Position:    f.Position,
		Trash:       f.Trash,
		Category:    CategoryToJson(f.Category),
	}
}

func ThreadToJson(row *forumdata.ThreadAndStuff) ThreadJson {
	return ThreadJson{
		ID:          row.Thread.ID,
		ForumID:     row.Thread.ForumID,
		Name:        row.Thread.Name,
		Author:      UserToJson(row.Author, false),
		Timestamp:   row.Thread.Timestamp,
		Laststamp:   row.Thread.Laststamp,
		Pinned:      row.Thread.Pinned,
		Locked:      row.Thread.Locked,
		Archived:    row.Thread.Archived,
		WikiArticle: row.Thread.WikiArticle,
	}
}

func PostToJson(row *forumdata.PostAndStuff) PostJson {
	return PostJson{
		ID:        row.Post.ID,
		ThreadID:  row.Post.ThreadID,
		Timestamp: row.Post.Timestamp,
		Text:      row.Post.Text,
		Deleted:   row.Post.Deleted,
		Author:    UserToJson(row.Author, false),
		Editstamp: row.Post.Editstamp,
		Editor:    UserToJson(row.Editor, false),
	}
}

func TaskToJson(t *models.Task) TaskJson {
	result := TaskJson{
		ID:          t.ID,
		Text:        t.Text,
		CreatedTime: t.CreatedTime,
		DueTime:     t.DueTime,
		AuthorID:    t.AuthorID,
		UserID:      t.UserID,
	}
	if t.Status != nil {
		status := string(*t.Status)
		result.Status = &status
	}
	return result
}

func UnreadToJson(status forumdata.UnreadStatus, numUnread int) *UnreadJson {
	result := &UnreadJson{NumUnread: &numUnread}
	switch status.Kind {
	case forumdata.AllUnread:
		result.Kind = "all"
	case forumdata.PartlyUnread:
		result.Kind = "part"
		if status.ResumeAt != nil {
			result.ResumeAtPostID = &status.ResumeAt.ID
		}
	default:
		result.Kind = "none"
	}
	return result
}

// Form field helpers. Empty or absent fields become nil for the optional
// variants, which is what the data layer's "leave unchanged" pointers want.

func formOptionalString(form url.Values, name string) *string {
	if !form.Has(name) {
		return nil
	}
	value := form.Get(name)
	return &value
}

func formInt(form url.Values, name string) (int, bool) {
	value, err := strconv.Atoi(strings.TrimSpace(form.Get(name)))
	if err != nil {
		return 0, false
	}
	return value, true
}

func formOptionalInt(form url.Values, name string) *int {
	value, ok := formInt(form, name)
	if !ok {
		return nil
	}
	return &value
}

func formOptionalBool(form url.Values, name string) *bool {
	if !form.Has(name) {
		return nil
	}
	value := form.Get(name) == "true" || form.Get(name) == "1" || form.Get(name) == "on"
	return &value
}

func formOptionalTime(form url.Values, name string) (*time.Time, error) {
	raw := strings.TrimSpace(form.Get(name))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// The board UI sends bare dates.
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, forumdata.NewValidationError("could not parse time %q", raw)
		}
	}
	return &t, nil
}
