package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NoteEntry is one free-form note on a person. The number of entries
// feeds the closeness-score floor, one point per entry.
type NoteEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// EventEntry is one logged life event for a person.
type EventEntry struct {
	ID   string `json:"id"`
	Date string `json:"date,omitempty"`
	Text string `json:"text"`
}

// Person is a tracked relationship record.
type Person struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Reading            string `json:"reading,omitempty"`
	Nickname           string `json:"nickname,omitempty"`
	RelationshipStatus string `json:"relationshipStatus"`
	Relation           string `json:"relation,omitempty"`
	Address            string `json:"address,omitempty"`
	Workplace          string `json:"workplace,omitempty"`
	School             string `json:"school,omitempty"`
	Birthday           string `json:"birthday,omitempty"` // YYYY-MM-DD

	FriendScore         int    `json:"friendScore"`
	Floor               int    `json:"floor"`
	LastInteractionDate string `json:"lastInteractionDate,omitempty"` // YYYY-MM-DD

	Contacts     map[string]string `json:"contacts,omitempty"`
	RelationTags []string          `json:"relationTags,omitempty"`
	Groups       []string          `json:"groups,omitempty"`
	Favourites   []string          `json:"favourites,omitempty"`
	Dislikes     []string          `json:"dislikes,omitempty"`
	Hobbies      []string          `json:"hobbies,omitempty"`
	Notes        []NoteEntry       `json:"notes,omitempty"`
	Events       []EventEntry      `json:"events,omitempty"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// PersonPatch is a partial update. Nil fields are left untouched, so a
// rollover-driven score patch and a manual field edit never clobber
// each other.
type PersonPatch struct {
	Name               *string `json:"name,omitempty"`
	Reading            *string `json:"reading,omitempty"`
	Nickname           *string `json:"nickname,omitempty"`
	RelationshipStatus *string `json:"relationshipStatus,omitempty"`
	Relation           *string `json:"relation,omitempty"`
	Address            *string `json:"address,omitempty"`
	Workplace          *string `json:"workplace,omitempty"`
	School             *string `json:"school,omitempty"`
	Birthday           *string `json:"birthday,omitempty"`

	FriendScore         *int    `json:"friendScore,omitempty"`
	Floor               *int    `json:"floor,omitempty"`
	LastInteractionDate *string `json:"lastInteractionDate,omitempty"`

	Contacts     *map[string]string `json:"contacts,omitempty"`
	RelationTags *[]string          `json:"relationTags,omitempty"`
	Groups       *[]string          `json:"groups,omitempty"`
	Favourites   *[]string          `json:"favourites,omitempty"`
	Dislikes     *[]string          `json:"dislikes,omitempty"`
	Hobbies      *[]string          `json:"hobbies,omitempty"`
	Notes        *[]NoteEntry       `json:"notes,omitempty"`
	Events       *[]EventEntry      `json:"events,omitempty"`
}

const personColumns = `id, name, reading, nickname, relationship_status, relation, address,
	workplace, school, birthday, friend_score, floor, last_interaction_date,
	contacts, relation_tags, friend_groups, favourites, dislikes, hobbies, notes, events,
	created_at, updated_at`

// CreatePerson inserts a new person. Assigns an ID if none is set and
// defaults the closeness score to 20.
func (db *DB) CreatePerson(p *Person) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.RelationshipStatus == "" {
		p.RelationshipStatus = "unknown"
	}
	if p.FriendScore == 0 {
		p.FriendScore = 20
	}
	now := time.Now().UnixMilli()

	_, err := db.Exec(`
		INSERT INTO people (`+personColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Reading, p.Nickname, p.RelationshipStatus, p.Relation, p.Address,
		p.Workplace, p.School, p.Birthday, p.FriendScore, p.Floor, p.LastInteractionDate,
		encodeJSON(p.Contacts), encodeJSON(p.RelationTags), encodeJSON(p.Groups),
		encodeJSON(p.Favourites), encodeJSON(p.Dislikes), encodeJSON(p.Hobbies),
		encodeJSON(p.Notes), encodeJSON(p.Events), now, now)
	if err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// GetPerson returns a person by ID, or nil if not found.
func (db *DB) GetPerson(id string) (*Person, error) {
	row := db.QueryRow(`SELECT `+personColumns+` FROM people WHERE id = ?`, id)
	p, err := scanPerson(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	return p, nil
}

// ListPeople returns all people. orderBy selects the sort: "score",
// "name", or the default "last_interaction" (most recent first).
func (db *DB) ListPeople(orderBy string) ([]Person, error) {
	order := "last_interaction_date DESC, name"
	switch orderBy {
	case "score":
		order = "friend_score DESC, name"
	case "name":
		order = "name"
	}

	rows, err := db.Query(`SELECT ` + personColumns + ` FROM people ORDER BY ` + order)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	var people []Person
	for rows.Next() {
		p, err := scanPerson(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		people = append(people, *p)
	}
	return people, rows.Err()
}

// PatchPerson applies a partial update by field. Unset patch fields are
// not written. Returns nil without error if the person does not exist.
func (db *DB) PatchPerson(id string, patch PersonPatch) error {
	set := []string{}
	args := []any{}
	add := func(col string, v any) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Reading != nil {
		add("reading", *patch.Reading)
	}
	if patch.Nickname != nil {
		add("nickname", *patch.Nickname)
	}
	if patch.RelationshipStatus != nil {
		add("relationship_status", *patch.RelationshipStatus)
	}
	if patch.Relation != nil {
		add("relation", *patch.Relation)
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}
	if patch.Workplace != nil {
		add("workplace", *patch.Workplace)
	}
	if patch.School != nil {
		add("school", *patch.School)
	}
	if patch.Birthday != nil {
		add("birthday", *patch.Birthday)
	}
	if patch.FriendScore != nil {
		add("friend_score", *patch.FriendScore)
	}
	if patch.Floor != nil {
		add("floor", *patch.Floor)
	}
	if patch.LastInteractionDate != nil {
		add("last_interaction_date", *patch.LastInteractionDate)
	}
	if patch.Contacts != nil {
		add("contacts", encodeJSON(*patch.Contacts))
	}
	if patch.RelationTags != nil {
		add("relation_tags", encodeJSON(*patch.RelationTags))
	}
	if patch.Groups != nil {
		add("friend_groups", encodeJSON(*patch.Groups))
	}
	if patch.Favourites != nil {
		add("favourites", encodeJSON(*patch.Favourites))
	}
	if patch.Dislikes != nil {
		add("dislikes", encodeJSON(*patch.Dislikes))
	}
	if patch.Hobbies != nil {
		add("hobbies", encodeJSON(*patch.Hobbies))
	}
	if patch.Notes != nil {
		add("notes", encodeJSON(*patch.Notes))
	}
	if patch.Events != nil {
		add("events", encodeJSON(*patch.Events))
	}

	if len(set) == 0 {
		return nil
	}

	add("updated_at", time.Now().UnixMilli())
	args = append(args, id)

	query := "UPDATE people SET "
	for i, s := range set {
		if i > 0 {
			query += ", "
		}
		query += s
	}
	query += " WHERE id = ?"

	if _, err := db.Exec(query, args...); err != nil {
		return fmt.Errorf("patch person: %w", err)
	}
	return nil
}

// DeletePerson removes a person and any ledger rows referring to them.
func (db *DB) DeletePerson(id string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete person: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM daily_actions WHERE person_id = ?", id); err != nil {
		tx.Rollback()
		return fmt.Errorf("delete person actions: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM people WHERE id = ?", id); err != nil {
		tx.Rollback()
		return fmt.Errorf("delete person: %w", err)
	}
	return tx.Commit()
}

// ReplaceAllPeople swaps the entire people table for the given list.
// Used only by bulk import, never by the scoring core.
func (db *DB) ReplaceAllPeople(people []Person) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM people"); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear people: %w", err)
	}

	now := time.Now().UnixMilli()
	for i := range people {
		p := &people[i]
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.RelationshipStatus == "" {
			p.RelationshipStatus = "unknown"
		}
		createdAt := p.CreatedAt
		if createdAt == 0 {
			createdAt = now
		}
		if _, err := tx.Exec(`
			INSERT INTO people (`+personColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, p.ID, p.Name, p.Reading, p.Nickname, p.RelationshipStatus, p.Relation, p.Address,
			p.Workplace, p.School, p.Birthday, p.FriendScore, p.Floor, p.LastInteractionDate,
			encodeJSON(p.Contacts), encodeJSON(p.RelationTags), encodeJSON(p.Groups),
			encodeJSON(p.Favourites), encodeJSON(p.Dislikes), encodeJSON(p.Hobbies),
			encodeJSON(p.Notes), encodeJSON(p.Events), createdAt, now); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert person %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// CountPeople returns the number of person records.
func (db *DB) CountPeople() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM people").Scan(&count)
	return count, err
}

func scanPerson(scan func(dest ...any) error) (*Person, error) {
	var p Person
	var reading, nickname, relation, address, workplace, school, birthday sql.NullString
	var contacts, relationTags, groups, favourites, dislikes, hobbies, notes, events sql.NullString

	err := scan(&p.ID, &p.Name, &reading, &nickname, &p.RelationshipStatus, &relation, &address,
		&workplace, &school, &birthday, &p.FriendScore, &p.Floor, &p.LastInteractionDate,
		&contacts, &relationTags, &groups, &favourites, &dislikes, &hobbies, &notes, &events,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.Reading = reading.String
	p.Nickname = nickname.String
	p.Relation = relation.String
	p.Address = address.String
	p.Workplace = workplace.String
	p.School = school.String
	p.Birthday = birthday.String
	decodeJSON(contacts.String, &p.Contacts)
	decodeJSON(relationTags.String, &p.RelationTags)
	decodeJSON(groups.String, &p.Groups)
	decodeJSON(favourites.String, &p.Favourites)
	decodeJSON(dislikes.String, &p.Dislikes)
	decodeJSON(hobbies.String, &p.Hobbies)
	decodeJSON(notes.String, &p.Notes)
	decodeJSON(events.String, &p.Events)
	return &p, nil
}

func encodeJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// decodeJSON fills dst from a JSON column. Corrupt or empty data leaves
// dst at its zero value, never an error to the caller.
func decodeJSON(s string, dst any) {
	if s == "" || s == "null" {
		return
	}
	_ = json.Unmarshal([]byte(s), dst)
}
