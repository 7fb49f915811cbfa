package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/voidshard/conveyor/internal/utils"
	"github.com/voidshard/conveyor/pkg/structs"
)

const (
	tableJobs = "jobs"

	// order matters, it's shared by scanJob & toJobArgs
	jobColumns = "id, owner, status, progress, terminal_message, facts, links, num_input_granules, request_url, etag, created_at, updated_at"
)

// placeholder returns the n-th (1 indexed) bind parameter for a given SQL dialect
type placeholder func(n int) string

func dollar(n int) string {
	return fmt.Sprintf("$%d", n)
}

func question(n int) string {
	return fmt.Sprintf("?%d", n)
}

// scanner is satisfied by pgx.Row(s) and *sql.Row(s)
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanJob reads one row of jobColumns
func scanJob(row scanner) (*structs.Job, error) {
	j := &structs.Job{}
	var facts, links []byte
	var granules sql.NullInt64
	err := row.Scan(
		&j.ID,
		&j.Owner,
		&j.Status,
		&j.Progress,
		&j.TerminalMessage,
		&facts,
		&links,
		&granules,
		&j.RequestURL,
		&j.ETag,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(facts) > 0 && string(facts) != "null" {
		j.Facts = &structs.SearchFacts{}
		err = json.Unmarshal(facts, j.Facts)
		if err != nil {
			return nil, fmt.Errorf("decoding facts for job %s: %w", j.ID, err)
		}
	}

	j.Links = []*structs.Link{}
	if len(links) > 0 {
		err = json.Unmarshal(links, &j.Links)
		if err != nil {
			return nil, fmt.Errorf("decoding links for job %s: %w", j.ID, err)
		}
	}

	if granules.Valid {
		n := int(granules.Int64)
		j.NumInputGranules = &n
	}

	return j, nil
}

// toJobArgs converts a job into args in jobColumns order
func toJobArgs(j *structs.Job) ([]interface{}, error) {
	var facts interface{}
	if j.Facts != nil {
		data, err := json.Marshal(j.Facts)
		if err != nil {
			return nil, err
		}
		facts = data
	}

	lnks := j.Links
	if lnks == nil {
		lnks = []*structs.Link{}
	}
	links, err := json.Marshal(lnks)
	if err != nil {
		return nil, err
	}

	var granules sql.NullInt64
	if j.NumInputGranules != nil {
		granules = sql.NullInt64{Int64: int64(*j.NumInputGranules), Valid: true}
	}

	return []interface{}{
		j.ID,
		j.Owner,
		string(j.Status),
		j.Progress,
		j.TerminalMessage,
		facts,
		links,
		granules,
		j.RequestURL,
		j.ETag,
		j.CreatedAt,
		j.UpdatedAt,
	}, nil
}

func columns() []string {
	cols := strings.Split(jobColumns, ",")
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	return cols
}

// insertJobSQL returns the insert statement for a job & its args
func insertJobSQL(ph placeholder, j *structs.Job) (string, []interface{}, error) {
	args, err := toJobArgs(j)
	if err != nil {
		return "", nil, err
	}
	vals := []string{}
	for i := range args {
		vals = append(vals, ph(i+1))
	}
	return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s);`, tableJobs, jobColumns, strings.Join(vals, ", ")), args, nil
}

// updateJobSQL returns a statement writing every mutable column of j, guarded by the etag
// the job had when it was read.
func updateJobSQL(ph placeholder, j *structs.Job, oldETag string) (string, []interface{}, error) {
	all, err := toJobArgs(j)
	if err != nil {
		return "", nil, err
	}

	sets := []string{}
	args := []interface{}{}
	for i, c := range columns() {
		if c == "id" || c == "owner" || c == "created_at" {
			continue
		}
		args = append(args, all[i])
		sets = append(sets, fmt.Sprintf("%s=%s", c, ph(len(args))))
	}
	args = append(args, j.ID, oldETag)

	return fmt.Sprintf(`UPDATE %s SET %s WHERE id=%s AND etag=%s;`,
		tableJobs, strings.Join(sets, ", "), ph(len(args)-1), ph(len(args)),
	), args, nil
}

// selectJobSQL returns a select for one job. forUpdate adds a row lock (postgres only).
func selectJobSQL(ph placeholder, forUpdate bool) string {
	lock := ""
	if forUpdate {
		lock = " FOR UPDATE"
	}
	return fmt.Sprintf(`SELECT %s FROM %s WHERE id=%s%s;`, jobColumns, tableJobs, ph(1), lock)
}

// jobsByOwnerSQL returns a select for an owner's jobs & its args
func jobsByOwnerSQL(ph placeholder, owner string, q *structs.Query) (string, []interface{}) {
	where := []string{fmt.Sprintf("owner = %s", ph(1))}
	args := []interface{}{owner}

	in, inArgs := toSqlIn(ph, len(args)+1, "status", statusToStrings(q.Statuses))
	if in != "" {
		where = append(where, in)
		args = append(args, inArgs...)
	}

	args = append(args, q.Limit, q.Offset)
	return fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY created_at DESC, id DESC LIMIT %s OFFSET %s;`,
		jobColumns, tableJobs, strings.Join(where, " AND "), ph(len(args)-1), ph(len(args)),
	), args
}

// toSqlIn converts a list of strings into a SQL IN clause
func toSqlIn(ph placeholder, offset int, field string, args []string) (string, []interface{}) {
	if len(args) == 0 {
		return "", []interface{}{}
	}
	vals := []string{}
	ifargs := []interface{}{}
	for i, a := range args {
		vals = append(vals, ph(i+offset))
		ifargs = append(ifargs, a)
	}
	return fmt.Sprintf("%s IN (%s)", field, strings.Join(vals, ", ")), ifargs
}

// statusToStrings converts a list of statuses into a list of strings
func statusToStrings(in []structs.Status) []string {
	if len(in) == 0 {
		return nil
	}
	out := []string{}
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}

// prepareInsert sets the etag & timestamps of a new job if they're unset
func prepareInsert(j *structs.Job) {
	if j.ETag == "" {
		j.ETag = utils.NewRandomID()
	}
	if j.CreatedAt == 0 {
		j.CreatedAt = timeNow()
	}
	if j.UpdatedAt < j.CreatedAt {
		j.UpdatedAt = j.CreatedAt
	}
	if j.Links == nil {
		j.Links = []*structs.Link{}
	}
}

// touch gives a mutated job a new etag & an updated_at strictly after the last one
func touch(j *structs.Job) {
	j.ETag = utils.NewRandomID()
	now := timeNow()
	if now <= j.UpdatedAt {
		now = j.UpdatedAt + 1
	}
	j.UpdatedAt = now
}

// timeNow returns the current time in unix milliseconds
var timeNow = func() int64 {
	return time.Now().UnixMilli()
}
