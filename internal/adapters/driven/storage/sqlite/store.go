package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/bfs/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/bfs/internal/core/domain"
	"github.com/custodia-labs/bfs/internal/core/ports/driven"
	"github.com/custodia-labs/bfs/internal/logger"
)

// DefaultBusyTimeout is how long the backend waits on a locked file.
const DefaultBusyTimeout = domain.DefaultBusyTimeout

const (
	sqlBegin    = `BEGIN`
	sqlEnd      = `END`
	sqlAttrList = `SELECT key, val FROM tbl_attr`
	sqlAttrSet  = `REPLACE INTO tbl_attr (key, val) VALUES (@arg_key, @arg_val)`
	sqlAttrClr  = `DELETE FROM tbl_attr WHERE key = @arg_key`
	sqlBlobList = `SELECT name, length(blob) FROM tbl_blob WHERE name LIKE @arg_pattern`
	sqlBlobSet  = `REPLACE INTO tbl_blob (name, blob) VALUES (@arg_name, @arg_blob)`
	sqlBlobClr  = `DELETE FROM tbl_blob WHERE name = @arg_name`
)

// Options tune the backend. Zero values select the defaults.
type Options struct {
	// BusyTimeout bounds how long the backend waits on a locked file.
	BusyTimeout time.Duration
	// BatchSize is the number of stream mode writes per transaction.
	BatchSize int
}

func (o Options) withDefaults() Options {
	if o.BusyTimeout <= 0 {
		o.BusyTimeout = DefaultBusyTimeout
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	return o
}

// writerStmts are the prepared queries shared by exclusive operations. They
// all run on the single writer connection.
type writerStmts struct {
	attrList *sql.Stmt
	attrSet  *sql.Stmt
	attrClr  *sql.Stmt
	blobList *sql.Stmt
	blobSet  *sql.Stmt
	blobClr  *sql.Stmt
	begin    *sql.Stmt
	end      *sql.Stmt
}

func (w *writerStmts) all() []*sql.Stmt {
	return []*sql.Stmt{w.attrList, w.attrSet, w.attrClr, w.blobList, w.blobSet, w.blobClr, w.begin, w.end}
}

func (w *writerStmts) close() error {
	var errs []error
	for _, stmt := range w.all() {
		if stmt != nil {
			errs = append(errs, stmt.Close())
		}
	}
	*w = writerStmts{}
	return errors.Join(errs...)
}

// Store is an open store file. Reads use one connection per execution
// context, everything else shares a single writer connection.
type Store struct {
	path   string
	mode   domain.Mode
	policy domain.ModePolicy
	nth    int

	db     *sql.DB
	writer *sql.Conn
	stmts  writerStmts
	pool   *handlePool
	batch  batcher
	guard  guard

	indexPending bool
	closed       atomic.Bool
}

var _ driven.Store = (*Store)(nil)

// Open opens the store file at path with nth execution contexts.
//
// ReadOnly requires an existing file. ReadWrite and Stream create the file
// and its tables when needed. Unique indices are built immediately except in
// Stream mode, where they are built by Close.
func Open(ctx context.Context, path string, nth int, mode domain.Mode, opts Options) (*Store, error) {
	if err := mode.ValidateThreads(nth); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}

	policy := mode.Policy()
	opts = opts.withDefaults()
	if policy.ReadOnlyBackend {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
	}

	db, err := sql.Open("sqlite", dsn(path, policy, opts))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	conns := 1
	if policy.AllowReads {
		conns += nth
	}
	db.SetMaxOpenConns(conns)
	db.SetMaxIdleConns(conns)

	s := &Store{
		path:   path,
		mode:   mode,
		policy: policy,
		nth:    nth,
		db:     db,
	}
	s.guard.init(!policy.Locking)
	s.batch.enabled = policy.Batching
	s.batch.threshold = opts.BatchSize

	if err := s.init(ctx); err != nil {
		logger.Error("opening %s failed: %v", path, err)
		return nil, errors.Join(err, s.release())
	}
	logger.Debug("opened %s mode=%s nth=%d", path, mode, nth)
	return s, nil
}

// init connects, creates the schema and prepares every query.
func (s *Store) init(ctx context.Context) error {
	writer, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	s.writer = writer

	if !s.policy.ReadOnlyBackend {
		if err := migrate(ctx, writer, migrations.FS); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		missing, err := missingIndices(ctx, writer)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			if s.policy.DeferIndex {
				s.indexPending = true
			} else if err := buildIndices(ctx, writer); err != nil {
				return err
			}
		}
	}

	if err := s.prepareWriter(ctx); err != nil {
		return err
	}

	if s.policy.AllowReads {
		pool, err := newHandlePool(ctx, s.db, s.nth)
		if err != nil {
			return err
		}
		s.pool = pool
	}
	return nil
}

func (s *Store) prepareWriter(ctx context.Context) error {
	var stmts []struct {
		dst   **sql.Stmt
		query string
	}
	add := func(dst **sql.Stmt, query string) {
		stmts = append(stmts, struct {
			dst   **sql.Stmt
			query string
		}{dst, query})
	}
	if s.policy.AllowReads {
		add(&s.stmts.attrList, sqlAttrList)
		add(&s.stmts.blobList, sqlBlobList)
	}
	if s.policy.AllowWrites {
		add(&s.stmts.attrSet, sqlAttrSet)
		add(&s.stmts.attrClr, sqlAttrClr)
		add(&s.stmts.blobSet, sqlBlobSet)
		add(&s.stmts.blobClr, sqlBlobClr)
	}
	if s.policy.Batching {
		add(&s.stmts.begin, sqlBegin)
		add(&s.stmts.end, sqlEnd)
	}

	for _, st := range stmts {
		stmt, err := s.writer.PrepareContext(ctx, st.query)
		if err != nil {
			return fmt.Errorf("preparing %q: %w", st.query, err)
		}
		*st.dst = stmt
	}
	s.batch.begin = s.stmts.begin
	s.batch.end = s.stmts.end
	return nil
}

// release frees every resource acquired so far, in reverse order.
func (s *Store) release() error {
	errs := []error{s.pool.close(), s.stmts.close()}
	s.pool = nil
	if s.writer != nil {
		errs = append(errs, s.writer.Close())
		s.writer = nil
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
		s.db = nil
	}
	return errors.Join(errs...)
}

// Close flushes the open batch, finalizes prepared queries, builds deferred
// indices and closes the backend. All steps run even if one fails; a
// deferred index failure wraps domain.ErrIndexBuild.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return domain.ErrClosed
	}

	ctx := context.Background()
	s.guard.acquireExclusive()
	defer s.guard.releaseExclusive()

	var errs []error
	if err := s.batch.endBatch(ctx); err != nil {
		logger.Warn("final flush of %s failed: %v", s.path, err)
		errs = append(errs, err)
	}
	errs = append(errs, s.pool.close(), s.stmts.close())
	s.pool = nil

	if s.indexPending {
		if err := buildIndices(ctx, s.writer); err != nil {
			logger.Error("uniqueness of %s is not enforced: %v", s.path, err)
			errs = append(errs, err)
		} else {
			s.indexPending = false
		}
	}

	errs = append(errs, s.release())
	logger.Debug("closed %s", s.path)
	return errors.Join(errs...)
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// Mode returns the mode the store was opened in.
func (s *Store) Mode() domain.Mode {
	return s.mode
}

// Threads returns the number of execution contexts.
func (s *Store) Threads() int {
	return s.nth
}

// lockRead validates a shared read and acquires the read lock. On success
// the caller must call s.guard.releaseRead.
func (s *Store) lockRead(tid int) (*readSlot, error) {
	if !s.policy.AllowReads {
		return nil, fmt.Errorf("%w: reads are not allowed in %s mode", domain.ErrInvalidMode, s.mode)
	}
	if tid < 0 || tid >= s.nth {
		return nil, fmt.Errorf("%w: tid=%d nth=%d", domain.ErrInvalidContext, tid, s.nth)
	}
	s.guard.acquireRead()
	if s.closed.Load() {
		s.guard.releaseRead()
		return nil, domain.ErrClosed
	}
	slot, err := s.pool.get(tid)
	if err != nil {
		s.guard.releaseRead()
		return nil, err
	}
	return slot, nil
}

// lockList acquires the exclusive lock for a listing, which shares the
// writer's single cursor.
func (s *Store) lockList() error {
	if !s.policy.AllowReads {
		return fmt.Errorf("%w: listing is not allowed in %s mode", domain.ErrInvalidMode, s.mode)
	}
	s.guard.acquireExclusive()
	if s.closed.Load() {
		s.guard.releaseExclusive()
		return domain.ErrClosed
	}
	return nil
}

// lockWrite acquires the exclusive lock and joins the current batch.
func (s *Store) lockWrite(ctx context.Context) error {
	if !s.policy.AllowWrites {
		return fmt.Errorf("%w: writes are not allowed in %s mode", domain.ErrInvalidMode, s.mode)
	}
	s.guard.acquireExclusive()
	if s.closed.Load() {
		s.guard.releaseExclusive()
		return domain.ErrClosed
	}
	if err := s.batch.beginBatch(ctx); err != nil {
		s.guard.releaseExclusive()
		return err
	}
	return nil
}

// dsn builds a file: URI for modernc.org/sqlite. The driver applies the
// _pragma parameters on every new connection.
func dsn(path string, policy domain.ModePolicy, opts Options) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", opts.BusyTimeout.Milliseconds()))
	if policy.ReadOnlyBackend {
		q.Set("mode", "ro")
	} else {
		q.Set("mode", "rwc")
		q.Add("_pragma", "journal_mode(WAL)")
	}
	return "file:" + uriEscaper.Replace(path) + "?" + q.Encode()
}

var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// Factory opens stores with fixed Options.
type Factory struct {
	Options Options
}

var _ driven.StoreFactory = (*Factory)(nil)

// NewFactory creates a Factory.
func NewFactory(opts Options) *Factory {
	return &Factory{Options: opts}
}

// Open opens path; see Open.
func (f *Factory) Open(ctx context.Context, path string, nth int, mode domain.Mode) (driven.Store, error) {
	s, err := Open(ctx, path, nth, mode, f.Options)
	if err != nil {
		return nil, err
	}
	return s, nil
}
