package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/boardio/boardio/internal/common/config"
	"github.com/boardio/boardio/internal/common/database"
	"github.com/boardio/boardio/internal/common/errors"
	"github.com/boardio/boardio/pkg/model"
)

// PostgresStore persists boards and blocks in PostgreSQL using JSONB columns
// for property templates, board properties and block fields.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore connects to PostgreSQL and initializes the schema.
func NewPostgresStore(ctx context.Context, cfg config.DatabaseConfig) (*PostgresStore, error) {
	pool, err := database.NewDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	s := &PostgresStore{db: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
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
			card_properties JSONB NOT NULL DEFAULT '[]',
			properties      JSONB NOT NULL DEFAULT '{}',
			create_at       BIGINT NOT NULL DEFAULT 0,
			update_at       BIGINT NOT NULL DEFAULT 0,
			seq             BIGSERIAL
		)`,
		`CREATE TABLE IF NOT EXISTS blocks (
			id        TEXT PRIMARY KEY,
			parent_id TEXT NOT NULL DEFAULT '',
			board_id  TEXT NOT NULL,
			type      TEXT NOT NULL,
			title     TEXT NOT NULL DEFAULT '',
			fields    JSONB NOT NULL DEFAULT '{}',
			create_at BIGINT NOT NULL DEFAULT 0,
			update_at BIGINT NOT NULL DEFAULT 0,
			seq       BIGSERIAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_board_id ON blocks(board_id)`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_board_type ON blocks(board_id, type)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// CreateBoardAndBlocks persists the boards and blocks in one transaction.
// Re-imported entities with known ids are replaced.
func (s *PostgresStore) CreateBoardAndBlocks(ctx context.Context, bab *model.BoardsAndBlocks) (*CreatedEntities, error) {
	AssignIDs(bab)

	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		for _, board := range bab.Boards {
			cardPropsJSON, err := json.Marshal(board.CardProperties)
			if err != nil {
				return fmt.Errorf("failed to serialize card properties: %w", err)
			}
			propsJSON, err := json.Marshal(board.Properties)
			if err != nil {
				return fmt.Errorf("failed to serialize board properties: %w", err)
			}

			_, err = tx.Exec(ctx, `
				INSERT INTO boards (
					id, team_id, created_by, modified_by, type, title, description,
					icon, card_properties, properties, create_at, update_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
				ON CONFLICT (id) DO UPDATE SET
					team_id = EXCLUDED.team_id,
					created_by = EXCLUDED.created_by,
					modified_by = EXCLUDED.modified_by,
					type = EXCLUDED.type,
					title = EXCLUDED.title,
					description = EXCLUDED.description,
					icon = EXCLUDED.icon,
					card_properties = EXCLUDED.card_properties,
					properties = EXCLUDED.properties,
					create_at = EXCLUDED.create_at,
					update_at = EXCLUDED.update_at
			`, board.ID, board.TeamID, board.CreatedBy, board.ModifiedBy, string(board.Type),
				board.Title, board.Description, board.Icon,
				cardPropsJSON, propsJSON, board.CreateAt, board.UpdateAt)
			if err != nil {
				return fmt.Errorf("failed to insert board: %w", err)
			}
		}

		for _, block := range bab.Blocks {
			fieldsJSON, err := json.Marshal(block.Fields)
			if err != nil {
				return fmt.Errorf("failed to serialize block fields: %w", err)
			}

			_, err = tx.Exec(ctx, `
				INSERT INTO blocks (
					id, parent_id, board_id, type, title, fields, create_at, update_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				ON CONFLICT (id) DO UPDATE SET
					parent_id = EXCLUDED.parent_id,
					board_id = EXCLUDED.board_id,
					type = EXCLUDED.type,
					title = EXCLUDED.title,
					fields = EXCLUDED.fields,
					create_at = EXCLUDED.create_at,
					update_at = EXCLUDED.update_at
			`, block.ID, block.ParentID, block.BoardID, string(block.Type), block.Title,
				fieldsJSON, block.CreateAt, block.UpdateAt)
			if err != nil {
				return fmt.Errorf("failed to insert block: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.PersistenceError("failed to create board and blocks", err)
	}

	return &CreatedEntities{Boards: bab.Boards, Blocks: bab.Blocks}, nil
}

// GetBoard retrieves a board by id.
func (s *PostgresStore) GetBoard(ctx context.Context, boardID string) (*model.Board, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, team_id, created_by, modified_by, type, title, description,
		       icon, card_properties, properties, create_at, update_at
		FROM boards WHERE id = $1
	`, boardID)

	board, err := scanPostgresBoard(row)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("board", boardID)
	}
	if err != nil {
		return nil, errors.PersistenceError("failed to load board", err)
	}
	return board, nil
}

// ListBoards returns all boards in insertion order.
func (s *PostgresStore) ListBoards(ctx context.Context) ([]*model.Board, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, team_id, created_by, modified_by, type, title, description,
		       icon, card_properties, properties, create_at, update_at
		FROM boards
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, errors.PersistenceError("failed to list boards", err)
	}
	defer rows.Close()

	var boards []*model.Board
	for rows.Next() {
		board, err := scanPostgresBoard(rows)
		if err != nil {
			return nil, errors.PersistenceError("failed to scan board", err)
		}
		boards = append(boards, board)
	}
	return boards, rows.Err()
}

// ListViews returns the views of a board.
func (s *PostgresStore) ListViews(ctx context.Context, boardID string) ([]*model.View, error) {
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
func (s *PostgresStore) ListCards(ctx context.Context, boardID string) ([]*model.Card, error) {
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
func (s *PostgresStore) ListBlocks(ctx context.Context, boardID string) ([]*model.Block, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, parent_id, board_id, type, title, fields, create_at, update_at
		FROM blocks
		WHERE board_id = $1 AND type NOT IN ($2, $3)
		ORDER BY seq ASC
	`, boardID, string(model.BlockTypeView), string(model.BlockTypeCard))
	if err != nil {
		return nil, errors.PersistenceError("failed to list blocks", err)
	}
	defer rows.Close()

	return collectPostgresBlocks(rows)
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

func (s *PostgresStore) listBlocksByType(ctx context.Context, boardID string, blockType model.BlockType) ([]*model.Block, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, parent_id, board_id, type, title, fields, create_at, update_at
		FROM blocks
		WHERE board_id = $1 AND type = $2
		ORDER BY seq ASC
	`, boardID, string(blockType))
	if err != nil {
		return nil, errors.PersistenceError("failed to list blocks", err)
	}
	defer rows.Close()

	return collectPostgresBlocks(rows)
}

func scanPostgresBoard(row pgx.Row) (*model.Board, error) {
	board := &model.Board{}
	var boardType string
	var cardPropsJSON, propsJSON []byte

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
	if err := json.Unmarshal(cardPropsJSON, &board.CardProperties); err != nil {
		return nil, fmt.Errorf("failed to deserialize card properties: %w", err)
	}
	if err := json.Unmarshal(propsJSON, &board.Properties); err != nil {
		return nil, fmt.Errorf("failed to deserialize board properties: %w", err)
	}
	return board, nil
}

func collectPostgresBlocks(rows pgx.Rows) ([]*model.Block, error) {
	var blocks []*model.Block
	for rows.Next() {
		block := &model.Block{}
		var blockType string
		var fieldsJSON []byte
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
		if err := json.Unmarshal(fieldsJSON, &block.Fields); err != nil {
			return nil, errors.PersistenceError("failed to deserialize block fields", err)
		}
		blocks = append(blocks, block)
	}
	return blocks, rows.Err()
}
