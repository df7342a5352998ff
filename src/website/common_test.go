package website

import (
	"net/url"
	"testing"
	"time"

	"git.retroherna.org/rh/rhforum/src/forumdata"
	"git.retroherna.org/rh/rhforum/src/models"
	"github.com/stretchr/testify/assert"
)

func TestFormHelpers(t *testing.T) {
	form := url.Values{}
	form.Set("count", "12")
	form.Set("junk", "twelve")
	form.Set("flag", "true")
	form.Set("empty", "")

	t.Run("ints", func(t *testing.T) {
		v, ok := formInt(form, "count")
		assert.True(t, ok)
		assert.Equal(t, 12, v)

		_, ok = formInt(form, "junk")
		assert.False(t, ok)
		_, ok = formInt(form, "missing")
		assert.False(t, ok)

		assert.Nil(t, formOptionalInt(form, "missing"))
		if p := formOptionalInt(form, "count"); assert.NotNil(t, p) {
			assert.Equal(t, 12, *p)
		}
	})

	t.Run("bools", func(t *testing.T) {
		assert.Nil(t, formOptionalBool(form, "missing"))
		if p := formOptionalBool(form, "flag"); assert.NotNil(t, p) {
			assert.True(t, *p)
		}
		if p := formOptionalBool(form, "empty"); assert.NotNil(t, p) {
			assert.False(t, *p)
		}
	})

	t.Run("strings", func(t *testing.T) {
		assert.Nil(t, formOptionalString(form, "missing"))
		if p := formOptionalString(form, "empty"); assert.NotNil(t, p) {
			assert.Equal(t, "", *p)
		}
	})
}

func TestFormOptionalTime(t *testing.T) {
	form := url.Values{}

	missing, err := formOptionalTime(form, "due_time")
	assert.Nil(t, missing)
	assert.Nil(t, err)

	form.Set("due_time", "2026-08-28T12:30:00Z")
	parsed, err := formOptionalTime(form, "due_time")
	assert.Nil(t, err)
	assert.Equal(t, time.Date(2026, 8, 28, 12, 30, 0, 0, time.UTC), *parsed)

	form.Set("due_time", "2026-08-28")
	parsed, err = formOptionalTime(form, "due_time")
	assert.Nil(t, err)
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), *parsed)

	form.Set("due_time", "brzy")
	_, err = formOptionalTime(form, "due_time")
	assert.Error(t, err)
}

func TestUserToJson(t *testing.T) {
	user := &models.User{
		ID:       3,
		Login:    "uzivatel",
		Fullname: "Uživatel",
		Email:    "uzivatel@example.com",
		Groups: []*models.Group{
			{ID: 1, Name: "admin", Symbol: "⚙", GroupTitle: "Admin", Rank: 100, Display: true},
		},
	}

	public := UserToJson(user, false)
	assert.Equal(t, "Uživatel", public.Name)
	assert.Equal(t, "⚙ Admin", public.Title)
	assert.Empty(t, public.Email)

	private := UserToJson(user, true)
	assert.Equal(t, "uzivatel@example.com", private.Email)

	assert.Nil(t, UserToJson(nil, true))
}

func TestUnreadToJson(t *testing.T) {
	n := 4

	all := UnreadToJson(forumdata.UnreadStatus{Kind: forumdata.AllUnread}, n)
	assert.Equal(t, "all", all.Kind)
	assert.Nil(t, all.ResumeAtPostID)

	part := UnreadToJson(forumdata.UnreadStatus{
		Kind:     forumdata.PartlyUnread,
		ResumeAt: &models.Post{ID: 56},
	}, n)
	assert.Equal(t, "part", part.Kind)
	if assert.NotNil(t, part.ResumeAtPostID) {
		assert.Equal(t, 56, *part.ResumeAtPostID)
	}
	assert.Equal(t, 4, *part.NumUnread)

	none := UnreadToJson(forumdata.UnreadStatus{Kind: forumdata.NothingNew}, 0)
	assert.Equal(t, "none", none.Kind)
}
