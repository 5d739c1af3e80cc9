package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/boardio/boardio/internal/common/errors"
	"github.com/boardio/boardio/internal/db"
	"github.com/boardio/boardio/pkg/model"
)

// SQLiteStore persists boards and blocks in SQLite. Property templates,
// board properties and block fields are stored as JSON columns.
type SQLiteStore struct {
	db     *sqlx.DB // writer
	ro     *sqlx.DB // reader (read-only pool)
	ownsDB bool
}

// NewSQLiteStore opens the database at dbPath and initializes the schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	writerConn, err := db.OpenSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	readerConn, err := db.OpenSQLiteReader(dbPath)
	if err != nil {
		_ = writerConn.Close()
		return nil, fmt.Errorf("failed to open sqlite reader: %w", err)
	}

	writer := sqlx.NewDb(writerConn, "sqlite3")
	reader := sqlx.NewDb(readerConn, "sqlite3")
	return newSQLiteStore(writer, reader, true)
}

// NewSQLiteStoreWithDB creates a store over existing connections (shared
// ownership). Tests use this with a single :memory: connection.
func NewSQLiteStoreWithDB(writer, reader *sqlx.DB) (*SQLiteStore, error) {
	return newSQLiteStore(writer, reader, false)
}

func newSQLiteStore(writer, reader *sqlx.DB, ownsDB bool) (*SQLiteStore, error) {
	s := &SQLiteStore{db: writer, ro: reader, ownsDB: ownsDB}
	if err := s.initSchema(); err != nil {
		if ownsDB {
			_ = writer.Close()
			_ = reader.Close()
		}
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS boards (
			id              TEXT PRIMARY KEY,
			team_id         TEXT NOT NULL DEFAULT '',
			created_by      TEXT NOT NULL DEFAULT '',
			modified_by     TEXT NOT NULL DEFAULT '',
			type            TEXT NOT NULL DEFAULT 'O',
			title           TEXT NOT NULL DEFAULT '',
			description     TEXT NOT NULL DEFAULT '',
			icon            TEXT NOT NULL DEFAULT '',
			card_properties TEXT NOT NULL DEFAULT '[]',
			properties      TEXT NOT NULL DEFAULT '{}',
			create_at       INTEGER NOT NULL DEFAULT 0,
			update_at       INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS blocks (
			id        TEXT PRIMARY KEY,
			parent_id TEXT NOT NULL DEFAULT '',
			board_id  TEXT NOT NULL,
			type      TEXT NOT NULL,
			title     TEXT NOT NULL DEFAULT '',
			fields    TEXT NOT NULL DEFAULT '{}',
			create_at INTEGER NOT NULL DEFAULT 0,
			update_at INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_board_id ON blocks(board_id)`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_board_type ON blocks(board_id, type)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// CreateBoardAndBlocks persists the boards and blocks in one transaction.
// Re-imported entities with known ids are replaced.
func (s *SQLiteStore) CreateBoardAndBlocks(ctx context.Context, bab *model.BoardsAndBlocks) (*CreatedEntities, error) {
	AssignIDs(bab)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.PersistenceError("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, board := range bab.Boards {
		if err := insertBoard(ctx, tx, board); err != nil {
			return nil, errors.PersistenceError("failed to insert board", err)
		}
	}
	for _, block := range bab.Blocks {
		if err := insertBlock(ctx, tx, block); err != nil {
			return nil, errors.PersistenceError("failed to insert block", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.PersistenceError("failed to commit transaction", err)
	}

	return &CreatedEntities{Boards: bab.Boards, Blocks: bab.Blocks}, nil
}

func insertBoard(ctx context.Context, tx *sqlx.Tx, board *model.Board) error {
	cardPropsJSON, err := json.Marshal(board.CardProperties)
	if err != nil {
		return fmt.Errorf("failed to serialize card properties: %w", err)
	}
	propsJSON, err := json.Marshal(board.Properties)
	if err != nil {
		return fmt.Errorf("failed to serialize board properties: %w", err)
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO boards (
			id, team_id, created_by, modified_by, type, title, description,
			icon, card_properties, properties, create_at, update_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			team_id = excluded.team_id,
			created_by = excluded.created_by,
			modified_by = excluded.modified_by,
			type = excluded.type,
			title = excluded.title,
			description = excluded.description,
			icon = excluded.icon,
			card_properties = excluded.card_properties,
			properties = excluded.properties,
			create_at = excluded.create_at,
			update_at = excluded.update_at
	`), board.ID, board.TeamID, board.CreatedBy, board.ModifiedBy, string(board.Type),
		board.Title, board.Description, board.Icon,
		string(cardPropsJSON), string(propsJSON), board.CreateAt, board.UpdateAt)
	return err
}

func insertBlock(ctx context.Context, tx *sqlx.Tx, block *model.Block) error {
	fieldsJSON, err := json.Marshal(block.Fields)
	if err != nil {
		return fmt.Errorf("failed to serialize block fields: %w", err)
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO blocks (
			id, parent_id, board_id, type, title, fields, create_at, update_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			parent_id = excluded.parent_id,
			board_id = excluded.board_id,
			type = excluded.type,
			title = excluded.title,
			fields = excluded.fields,
			create_at = excluded.create_at,
			update_at = excluded.update_at
	`), block.ID, block.ParentID, block.BoardID, string(block.Type), block.Title,
		string(fieldsJSON), block.CreateAt, block.UpdateAt)
	return err
}

// GetBoard retrieves a board by id.
func (s *SQLiteStore) GetBoard(ctx context.Context, boardID string) (*model.Board, error) {
	row := s.ro.QueryRowContext(ctx, s.ro.Rebind(`
		SELECT id, team_id, created_by, modified_by, type, title, description,
		       icon, card_properties, properties, create_at, update_at
		FROM boards WHERE id = ?
	`), boardID)

	board, err := scanBoard(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("board", boardID)
	}
	if err != nil {
		return nil, errors.PersistenceError("failed to load board", err)
	}
	return board, nil
}

// ListBoards returns all boards ordered by creation time.
func (s *SQLiteStore) ListBoards(ctx context.Context) ([]*model.Board, error) {
	rows, err := s.ro.QueryContext(ctx, `
		SELECT id, team_id, created_by, modified_by, type, title, description,
		       icon, card_properties, properties, create_at, update_at
		FROM boards
		ORDER BY create_at ASC, id ASC
	`)
	if err != nil {
		return nil, errors.PersistenceError("failed to list boards", err)
	}
	defer func() { _ = rows.Close() }()

	var boards []*model.Board
	for rows.Next() {
		board, err := scanBoard(rows)
		if err != nil {
			return nil, errors.PersistenceError("failed to scan board", err)
		}
		boards = append(boards, board)
	}
	return boards, rows.Err()
}

// ListViews returns the views of a board.
func (s *SQLiteStore) ListViews(ctx context.Context, boardID string) ([]*model.View, error) {
	blocks, err := s.listBlocksByType(ctx, boardID, model.BlockTypeView)
	if err != nil {
		return nil, err
	}

	views := make([]*model.View, 0, len(blocks))
	for _, block := range blocks {
		view, err := model.ViewFromBlock(block)
		if err != nil {
			return nil, errors.PersistenceError("failed to decode view block", err)
		}
		views = append(views, view)
	}
	return views, nil
}

// ListCards returns the cards of a board.
func (s *SQLiteStore) ListCards(ctx context.Context, boardID string) ([]*model.Card, error) {
	blocks, err := s.listBlocksByType(ctx, boardID, model.BlockTypeCard)
	if err != nil {
		return nil, err
	}

	cards := make([]*model.Card, 0, len(blocks))
	for _, block := range blocks {
		card, err := model.CardFromBlock(block)
		if err != nil {
			return nil, errors.PersistenceError("failed to decode card block", err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// ListBlocks returns the content blocks of a board, excluding views and cards.
func (s *SQLiteStore) ListBlocks(ctx context.Context, boardID string) ([]*model.Block, error) {
	rows, err := s.ro.QueryContext(ctx, s.ro.Rebind(`
		SELECT id, parent_id, board_id, type, title, fields, create_at, update_at
		FROM blocks
		WHERE board_id = ? AND type NOT IN (?, ?)
		ORDER BY rowid ASC
	`), boardID, string(model.BlockTypeView), string(model.BlockTypeCard))
	if err != nil {
		return nil, errors.PersistenceError("failed to list blocks", err)
	}
	defer func() { _ = rows.Close() }()

	return collectBlocks(rows)
}

// Close closes the database connections if this store owns them.
func (s *SQLiteStore) Close() error {
	if !s.ownsDB {
		return nil
	}
	wErr := s.db.Close()
	if s.ro != s.db {
		if rErr := s.ro.Close(); rErr != nil && wErr == nil {
			return rErr
		}
	}
	return wErr
}

func (s *SQLiteStore) listBlocksByType(ctx context.Context, boardID string, blockType model.BlockType) ([]*model.Block, error) {
	rows, err := s.ro.QueryContext(ctx, s.ro.Rebind(`
		SELECT id, parent_id, board_id, type, title, fields, create_at, update_at
		FROM blocks
		WHERE board_id = ? AND type = ?
		ORDER BY rowid ASC
	`), boardID, string(blockType))
	if err != nil {
		return nil, errors.PersistenceError("failed to list blocks", err)
	}
	defer func() { _ = rows.Close() }()

	return collectBlocks(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBoard(row rowScanner) (*model.Board, error) {
	board := &model.Board{}
	var boardType, cardPropsJSON, propsJSON string

	err := row.Scan(
		&board.ID,
		&board.TeamID,
		&board.CreatedBy,
		&board.ModifiedBy,
		&boardType,
		&board.Title,
		&board.Description,
		&board.Icon,
		&cardPropsJSON,
		&propsJSON,
		&board.CreateAt,
		&board.UpdateAt,
	)
	if err != nil {
		return nil, err
	}

	board.Type = model.BoardType(boardType)
	if err := json.Unmarshal([]byte(cardPropsJSON), &board.CardProperties); err != nil {
		return nil, fmt.Errorf("failed to deserialize card properties: %w", err)
	}
	if err := json.Unmarshal([]byte(propsJSON), &board.Properties); err != nil {
		return nil, fmt.Errorf("failed to deserialize board properties: %w", err)
	}
	return board, nil
}

func collectBlocks(rows *sql.Rows) ([]*model.Block, error) {
	var blocks []*model.Block
	for rows.Next() {
		block := &model.Block{}
		var blockType, fieldsJSON string
		if err := rows.Scan(
			&block.ID,
			&block.ParentID,
			&block.BoardID,
			&blockType,
			&block.Title,
			&fieldsJSON,
			&block.CreateAt,
			&block.UpdateAt,
		); err != nil {
			return nil, errors.PersistenceError("failed to scan block", err)
		}
		block.Type = model.BlockType(blockType)
		if err := json.Unmarshal([]byte(fieldsJSON), &block.Fields); err != nil {
			return nil, errors.PersistenceError("failed to deserialize block fields", err)
		}
		blocks = append(blocks, block)
	}
	return blocks, rows.Err()
}
