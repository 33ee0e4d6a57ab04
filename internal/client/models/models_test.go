package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dmitrijs2005/pengaduan/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_JSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ID
		out  string
	}{
		{"number", `42`, "42", `42`},
		{"numeric string", `"42"`, "42", `42`},
		{"uuid string", `"a1b2"`, "a1b2", `"a1b2"`},
		{"null", `null`, "", `""`},
		{"negative", `-3`, "-3", `-3`},
		{"leading zero", `"007"`, "007", `"007"`},
		{"plus sign", `"+5"`, "+5", `"+5"`},
		{"out of range", `"99999999999999999999"`, "99999999999999999999", `"99999999999999999999"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
			assert.Equal(t, tt.want, id)

			b, err := json.Marshal(id)
			require.NoError(t, err)
			assert.Equal(t, tt.out, string(b))
		})
	}

	var id ID
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
}

func TestUser_Decode(t *testing.T) {
	raw := `{"id":7,"name":"Siti","email":"siti@example.id","email_verified_at":null,"role":"user","created_at":"2024-05-01T10:00:00Z"}`

	var u User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	assert.Equal(t, ID("7"), u.ID)
	assert.False(t, u.Verified())

	now := time.Now()
	u.EmailVerifiedAt = &now
	assert.True(t, u.Verified())

	var nilUser *User
	assert.False(t, nilUser.Verified())
}

func TestContent_Text(t *testing.T) {
	c := Content{Body: json.RawMessage(`"Jam layanan 08.00-15.00"`)}
	assert.Equal(t, "Jam layanan 08.00-15.00", c.Text())

	c.Body = json.RawMessage(`{"blocks":[]}`)
	assert.Equal(t, `{"blocks":[]}`, c.Text())
}

func TestComplaintStatus(t *testing.T) {
	assert.Equal(t, "Selesai", ComplaintStatus("resolved").Label())
	assert.Equal(t, "Diproses", StatusInProgress.Label())
	assert.Equal(t, "Menunggu", ComplaintStatus("PENDING").Label())
	assert.Equal(t, "arsip", ComplaintStatus("arsip").Label())

	assert.True(t, StatusPending.Cancellable())
	assert.False(t, StatusResolved.Cancellable())
}

func TestComplaint_Helpers(t *testing.T) {
	c := Complaint{}
	assert.Equal(t, "Tidak diketahui", c.CategoryName())
	c.Category = &Category{ID: "1", Name: "Layanan"}
	assert.Equal(t, "Layanan", c.CategoryName())

	a := Attachment{FilePath: "/lampiran/x.png"}
	assert.Equal(t, "https://host/storage/lampiran/x.png", a.URL("https://host/"))
}

func TestCodec_RoundTrip(t *testing.T) {
	in := []BookmarkEntry{{
		Content:      Content{ID: "42", Title: "Info", Type: ContentNews, Body: json.RawMessage(`"x"`)},
		BookmarkedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}}

	s, err := Encode(in)
	require.NoError(t, err)
	assert.Contains(t, s, `"v":1`)

	var out []BookmarkEntry
	require.NoError(t, Decode(s, &out))
	assert.Equal(t, in, out)
}

func TestCodec_LegacyBareJSON(t *testing.T) {
	var u User
	require.NoError(t, Decode(`{"id":1,"name":"Budi","email":"b@x.id","created_at":"2024-01-01T00:00:00Z"}`, &u))
	assert.Equal(t, "Budi", u.Name)

	var list []BookmarkEntry
	require.NoError(t, Decode(`[{"id":"42","title":"t","bookmarkedAt":"2024-01-01T00:00:00Z"}]`, &list))
	require.Len(t, list, 1)
	assert.Equal(t, ID("42"), list[0].ID)
}

func TestCodec_Errors(t *testing.T) {
	var u User
	assert.ErrorIs(t, Decode("", &u), common.ErrCorruptRecord)
	assert.ErrorIs(t, Decode("{not json", &u), common.ErrCorruptRecord)
	assert.ErrorIs(t, Decode(`{"v":2,"data":{}}`, &u), common.ErrUnsupportedVersion)
	assert.ErrorIs(t, Decode(`{"v":"one","data":{}}`, &u), common.ErrCorruptRecord)
	assert.ErrorIs(t, Decode(`{"v":1,"data":[]}`, &u), common.ErrCorruptRecord)
}

func TestEncode_NonCanonicalNumericID(t *testing.T) {
	for _, id := range []ID{"007", "+5"} {
		enc, err := Encode(BookmarkEntry{Content: Content{ID: id, Title: "Info"}})
		require.NoError(t, err, id)

		var back BookmarkEntry
		require.NoError(t, Decode(enc, &back))
		assert.Equal(t, id, back.ID)
	}
}
