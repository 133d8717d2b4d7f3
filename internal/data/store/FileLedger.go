package store

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/FAQBot/internal/domain/queryModel"
	"github.com/akolanti/FAQBot/pkg/logger_i"
)

const (
	countersFile   = "counters.txt"
	usersFile      = "users.txt"
	reportFile     = "report.txt"
	transcriptsDir = "transcripts"

	recordCounters   = "counters"
	recordProfile    = "user_profile"
	recordTranscript = "transcript"
	recordReport     = "report"

	reportSeparator = "---"
)

// FileLedger keeps the ledger as plain text files under one directory.
// Counters and profiles are rewritten through a temp file and rename; the
// transcript and report files are only ever appended to.
type FileLedger struct {
	dir string

	counterMu sync.Mutex
	profileMu sync.Mutex
	reportMu  sync.Mutex

	transcriptLocks *keyedMutex

	now    func() time.Time
	logger *logger_i.Logger
}

func NewFileLedger(dir string) (*FileLedger, error) {
	if err := os.MkdirAll(filepath.Join(dir, transcriptsDir), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	logger := logger_i.NewLogger("file_ledger")
	logger.Info("File ledger ready", "dir", dir)
	return &FileLedger{
		dir:             dir,
		transcriptLocks: newKeyedMutex(),
		now:             time.Now,
		logger:          logger,
	}, nil
}

func (l *FileLedger) IncrementResponses(ctx context.Context) error {
	return l.updateCounters(func(c *queryModel.Counters) { c.Responses++ })
}

func (l *FileLedger) IncrementSatisfied(ctx context.Context) error {
	return l.updateCounters(func(c *queryModel.Counters) { c.Satisfied++ })
}

func (l *FileLedger) updateCounters(apply func(*queryModel.Counters)) error {
	l.counterMu.Lock()
	defer l.counterMu.Unlock()

	c, err := l.readCounters()
	if err != nil {
		return queryModel.WrapPersistence(recordCounters, err)
	}
	apply(&c)
	data := fmt.Sprintf("%d\n%d\n", c.Responses, c.Satisfied)
	return queryModel.WrapPersistence(recordCounters, writeFileAtomic(l.path(countersFile), []byte(data)))
}

func (l *FileLedger) Counters(ctx context.Context) (queryModel.Counters, error) {
	l.counterMu.Lock()
	defer l.counterMu.Unlock()
	c, err := l.readCounters()
	return c, queryModel.WrapPersistence(recordCounters, err)
}

func (l *FileLedger) readCounters() (queryModel.Counters, error) {
	var c queryModel.Counters
	data, err := os.ReadFile(l.path(countersFile))
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, err
	}
	lines := strings.Fields(string(data))
	if len(lines) > 0 {
		if c.Responses, err = strconv.ParseInt(lines[0], 10, 64); err != nil {
			return c, fmt.Errorf("corrupt responses counter: %w", err)
		}
	}
	if len(lines) > 1 {
		if c.Satisfied, err = strconv.ParseInt(lines[1], 10, 64); err != nil {
			return c, fmt.Errorf("corrupt satisfied counter: %w", err)
		}
	}
	return c, nil
}

func (l *FileLedger) UpsertUserProfile(ctx context.Context, user queryModel.User) error {
	l.profileMu.Lock()
	defer l.profileMu.Unlock()

	profiles, err := l.readProfiles()
	if err != nil {
		return queryModel.WrapPersistence(recordProfile, err)
	}

	now := l.now()
	found := false
	for i := range profiles {
		if profiles[i].UserId == user.Id {
			profiles[i].DisplayName = user.DisplayName
			profiles[i].Handle = user.Handle
			profiles[i].LastSeen = now
			profiles[i].QueryCount++
			found = true
			break
		}
	}
	if !found {
		profiles = append(profiles, queryModel.UserProfile{
			UserId:      user.Id,
			DisplayName: user.DisplayName,
			Handle:      user.Handle,
			FirstSeen:   now,
			LastSeen:    now,
			QueryCount:  1,
		})
	}

	var buf bytes.Buffer
	for _, p := range profiles {
		fmt.Fprintf(&buf, "%d|%s|%s|%s|%s|%d\n", p.UserId, sanitizeField(p.DisplayName), sanitizeField(p.Handle),
			p.FirstSeen.Format(time.RFC3339), p.LastSeen.Format(time.RFC3339), p.QueryCount)
	}
	return queryModel.WrapPersistence(recordProfile, writeFileAtomic(l.path(usersFile), buf.Bytes()))
}

func (l *FileLedger) Profile(ctx context.Context, userId int64) (queryModel.UserProfile, bool, error) {
	l.profileMu.Lock()
	defer l.profileMu.Unlock()

	profiles, err := l.readProfiles()
	if err != nil {
		return queryModel.UserProfile{}, false, queryModel.WrapPersistence(recordProfile, err)
	}
	for _, p := range profiles {
		if p.UserId == userId {
			return p, true, nil
		}
	}
	return queryModel.UserProfile{}, false, nil
}

func (l *FileLedger) readProfiles() ([]queryModel.UserProfile, error) {
	data, err := os.ReadFile(l.path(usersFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var profiles []queryModel.UserProfile
	for n, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		p, err := parseProfile(line)
		if err != nil {
			return nil, fmt.Errorf("users.txt line %d: %w", n+1, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func parseProfile(line string) (queryModel.UserProfile, error) {
	var p queryModel.UserProfile
	fields := strings.Split(line, "|")
	if len(fields) != 6 {
		return p, fmt.Errorf("expected 6 fields, got %d", len(fields))
	}
	var err error
	if p.UserId, err = strconv.ParseInt(fields[0], 10, 64); err != nil {
		return p, err
	}
	p.DisplayName = fields[1]
	p.Handle = fields[2]
	if p.FirstSeen, err = time.Parse(time.RFC3339, fields[3]); err != nil {
		return p, err
	}
	if p.LastSeen, err = time.Parse(time.RFC3339, fields[4]); err != nil {
		return p, err
	}
	if p.QueryCount, err = strconv.ParseInt(fields[5], 10, 64); err != nil {
		return p, err
	}
	return p, nil
}

func (l *FileLedger) AppendTranscript(ctx context.Context, userId int64, role queryModel.Role, message string) error {
	unlock := l.transcriptLocks.Lock(userId)
	defer unlock()

	line := fmt.Sprintf("[%s] %s: %s\n", l.now().Format(time.DateTime), roleLabel(role), escapeLine(message))
	return queryModel.WrapPersistence(recordTranscript, appendFile(l.transcriptPath(userId), []byte(line)))
}

func (l *FileLedger) Transcript(ctx context.Context, userId int64) ([]queryModel.TranscriptEntry, error) {
	unlock := l.transcriptLocks.Lock(userId)
	defer unlock()

	f, err := os.Open(l.transcriptPath(userId))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, queryModel.WrapPersistence(recordTranscript, err)
	}
	defer f.Close()

	var entries []queryModel.TranscriptEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		entry, ok := parseTranscriptLine(scanner.Text())
		if !ok {
			l.logger.Warn("Skipping malformed transcript line", "userId", userId)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, queryModel.WrapPersistence(recordTranscript, scanner.Err())
}

func parseTranscriptLine(line string) (queryModel.TranscriptEntry, bool) {
	var entry queryModel.TranscriptEntry
	ts, rest, ok := parseStamp(line)
	if !ok {
		return entry, false
	}
	label, message, ok := strings.Cut(rest, ": ")
	if !ok {
		return entry, false
	}
	switch label {
	case "User":
		entry.Role = queryModel.RoleUser
	case "Bot":
		entry.Role = queryModel.RoleBot
	default:
		return entry, false
	}
	entry.Timestamp = ts
	entry.Message = unescapeLine(message)
	return entry, true
}

func (l *FileLedger) AppendReport(ctx context.Context, user queryModel.User, question string, answer string) error {
	l.reportMu.Lock()
	defer l.reportMu.Unlock()

	block := fmt.Sprintf("[%s] %d|%s|%s\nQuery: %s\nAnswer: %s\n%s\n",
		l.now().Format(time.DateTime), user.Id, sanitizeField(user.DisplayName), sanitizeField(user.Handle),
		escapeLine(question), escapeLine(answer), reportSeparator)
	return queryModel.WrapPersistence(recordReport, appendFile(l.path(reportFile), []byte(block)))
}

func (l *FileLedger) Reports(ctx context.Context) ([]queryModel.ReportRecord, error) {
	l.reportMu.Lock()
	defer l.reportMu.Unlock()

	data, err := os.ReadFile(l.path(reportFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, queryModel.WrapPersistence(recordReport, err)
	}

	var reports []queryModel.ReportRecord
	var current *queryModel.ReportRecord
	for _, line := range strings.Split(string(data), "\n") {
		switch {
		case line == reportSeparator:
			if current != nil {
				reports = append(reports, *current)
			}
			current = nil
		case strings.HasPrefix(line, "Query: ") && current != nil:
			current.Question = unescapeLine(strings.TrimPrefix(line, "Query: "))
		case strings.HasPrefix(line, "Answer: ") && current != nil:
			current.Answer = unescapeLine(strings.TrimPrefix(line, "Answer: "))
		case strings.HasPrefix(line, "["):
			ts, rest, ok := parseStamp(line)
			if !ok {
				continue
			}
			fields := strings.SplitN(rest, "|", 3)
			id, _ := strconv.ParseInt(fields[0], 10, 64)
			r := queryModel.ReportRecord{Timestamp: ts, User: queryModel.User{Id: id}}
			if len(fields) == 3 {
				r.User.DisplayName = fields[1]
				r.User.Handle = fields[2]
			}
			current = &r
		}
	}
	return reports, nil
}

// Close is a no-op: every write is flushed before it returns.
func (l *FileLedger) Close() error {
	return nil
}

func (l *FileLedger) path(name string) string {
	return filepath.Join(l.dir, name)
}

func (l *FileLedger) transcriptPath(userId int64) string {
	return filepath.Join(l.dir, transcriptsDir, strconv.FormatInt(userId, 10)+".txt")
}

func roleLabel(role queryModel.Role) string {
	if role == queryModel.RoleBot {
		return "Bot"
	}
	return "User"
}

func parseStamp(line string) (time.Time, string, bool) {
	if !strings.HasPrefix(line, "[") {
		return time.Time{}, "", false
	}
	stamp, rest, ok := strings.Cut(line[1:], "] ")
	if !ok {
		return time.Time{}, "", false
	}
	ts, err := time.ParseInLocation(time.DateTime, stamp, time.Local)
	if err != nil {
		return time.Time{}, "", false
	}
	return ts, rest, true
}

// appendFile issues a single write so concurrent appenders never interleave
// within a record.
func appendFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
