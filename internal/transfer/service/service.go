// Package service implements the board transfer operations: archive export,
// archive import and BPMN process export.
package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/boardio/boardio/internal/bpmn"
	"github.com/boardio/boardio/internal/common/errors"
	"github.com/boardio/boardio/internal/common/logger"
	"github.com/boardio/boardio/internal/common/stringutil"
	"github.com/boardio/boardio/internal/events"
	"github.com/boardio/boardio/internal/events/bus"
	"github.com/boardio/boardio/internal/jsonarchive"
	"github.com/boardio/boardio/internal/store"
	"github.com/boardio/boardio/internal/xmlarchive"
	v1 "github.com/boardio/boardio/pkg/api/v1"
	"github.com/boardio/boardio/pkg/model"
)

const eventSource = "transfer-service"

// Service wires the codecs to the store and event bus.
type Service struct {
	store    store.Store
	eventBus bus.EventBus
	logger   *logger.Logger

	// now is swappable so tests get a fixed export date
	now func() time.Time
}

// NewService creates a transfer service.
func NewService(st store.Store, eventBus bus.EventBus, log *logger.Logger) *Service {
	return &Service{
		store:    st,
		eventBus: eventBus,
		logger:   log.WithFields(zap.String("component", "transfer-service")),
		now:      time.Now,
	}
}

// ImportJSON imports a JSON archive. Any failure is reported in the result
// record; the method never returns an error past the API boundary.
func (s *Service) ImportJSON(ctx context.Context, data []byte) *v1.ImportResult {
	if result := jsonarchive.Validate(data); !result.Valid {
		return &v1.ImportResult{Success: false, Error: result.Error}
	}
	bab, err := jsonarchive.Unmarshal(data)
	if err != nil {
		return &v1.ImportResult{Success: false, Error: "Failed to import board: " + err.Error()}
	}
	return s.createImported(ctx, bab)
}

// ImportXML imports an XML archive. Any failure is reported in the result
// record; the method never returns an error past the API boundary.
func (s *Service) ImportXML(ctx context.Context, data []byte) *v1.ImportResult {
	if result := xmlarchive.Validate(data); !result.Valid {
		return &v1.ImportResult{Success: false, Error: result.Error}
	}
	bab, err := xmlarchive.Unmarshal(data)
	if err != nil {
		return &v1.ImportResult{Success: false, Error: "Failed to import board: " + err.Error()}
	}
	return s.createImported(ctx, bab)
}

func (s *Service) createImported(ctx context.Context, bab *model.BoardsAndBlocks) *v1.ImportResult {
	created, err := s.store.CreateBoardAndBlocks(ctx, bab)
	if err != nil {
		s.logger.Error("import persistence failed", zap.Error(err))
		return &v1.ImportResult{Success: false, Error: "Failed to import board: " + err.Error()}
	}
	if len(created.Boards) == 0 {
		return &v1.ImportResult{Success: false, Error: "Failed to create board: no board returned from server"}
	}

	boardID := created.Boards[0].ID
	s.publish(ctx, events.BoardImported, map[string]interface{}{
		"boardId":       boardID,
		"boardsCreated": len(created.Boards),
		"blocksCreated": len(created.Blocks),
	})

	s.logger.Info("board imported",
		zap.String("board_id", boardID),
		zap.String("board_title", stringutil.TruncateStringWithEllipsis(created.Boards[0].Title, 64)),
		zap.Int("boards_created", len(created.Boards)),
		zap.Int("blocks_created", len(created.Blocks)))

	return &v1.ImportResult{
		Success:       true,
		BoardID:       boardID,
		BoardsCreated: len(created.Boards),
		BlocksCreated: len(created.Blocks),
	}
}

// ExportJSON serializes a board and its blocks into the JSON archive format.
func (s *Service) ExportJSON(ctx context.Context, boardID string) (*v1.Download, error) {
	board, views, cards, blocks, err := s.loadBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	data, err := jsonarchive.Marshal(board, views, cards, blocks, s.now())
	if err != nil {
		return nil, errors.InternalError("failed to serialize board archive", err)
	}

	s.publishExported(ctx, boardID, v1.ExportFormatJSON)
	return &v1.Download{
		Filename: SanitizeFilename(board.Title) + ".json",
		MIME:     v1.MIMEJSON,
		Data:     data,
	}, nil
}

// ExportXML serializes a board and its blocks into the XML archive format.
func (s *Service) ExportXML(ctx context.Context, boardID string) (*v1.Download, error) {
	board, views, cards, blocks, err := s.loadBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	data, err := xmlarchive.Marshal(board, views, cards, blocks, s.now())
	if err != nil {
		return nil, errors.InternalError("failed to serialize board archive", err)
	}

	s.publishExported(ctx, boardID, v1.ExportFormatXML)
	return &v1.Download{
		Filename: SanitizeFilename(board.Title) + ".xml",
		MIME:     v1.MIMEXML,
		Data:     data,
	}, nil
}

// ExportBPMN maps a board's cards onto a BPMN process diagram. The mapping
// fails up front when the configured status property does not exist.
func (s *Service) ExportBPMN(ctx context.Context, boardID string, req v1.BPMNExportRequest) (*v1.Download, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	cards, err := s.store.ListCards(ctx, boardID)
	if err != nil {
		return nil, err
	}

	cfg := bpmn.MappingConfig{
		StatusPropertyID:     req.StatusPropertyID,
		StartStates:          req.StartStates,
		EndStates:            req.EndStates,
		DependencyPropertyID: req.DependencyPropertyID,
	}
	data, err := bpmn.Export(board, cards, cfg)
	if err != nil {
		return nil, errors.PreconditionFailed(err.Error(), err)
	}

	s.publishExported(ctx, boardID, v1.ExportFormatBPMN)
	return &v1.Download{
		Filename: SanitizeFilename(board.Title) + ".bpmn",
		MIME:     v1.MIMEBPMN,
		Data:     data,
	}, nil
}

// ExportAll exports every board as a JSON archive. Boards are exported
// concurrently; the result order matches the board listing order.
func (s *Service) ExportAll(ctx context.Context) ([]*v1.Download, error) {
	boards, err := s.store.ListBoards(ctx)
	if err != nil {
		return nil, err
	}

	downloads := make([]*v1.Download, len(boards))
	g, gctx := errgroup.WithContext(ctx)
	for i, board := range boards {
		i, board := i, board
		g.Go(func() error {
			download, err := s.ExportJSON(gctx, board.ID)
			if err != nil {
				return fmt.Errorf("failed to export board %s: %w", board.ID, err)
			}
			downloads[i] = download
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return downloads, nil
}

func (s *Service) loadBoard(ctx context.Context, boardID string) (*model.Board, []*model.View, []*model.Card, []*model.Block, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	views, err := s.store.ListViews(ctx, boardID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	cards, err := s.store.ListCards(ctx, boardID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	blocks, err := s.store.ListBlocks(ctx, boardID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return board, views, cards, blocks, nil
}

func (s *Service) publishExported(ctx context.Context, boardID string, format v1.ExportFormat) {
	s.publish(ctx, events.BoardExported, map[string]interface{}{
		"boardId": boardID,
		"format":  string(format),
	})
}

func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventBus == nil {
		return
	}
	event := bus.NewEvent(eventType, eventSource, data)
	if err := s.eventBus.Publish(ctx, eventType, event); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// maxFilenameLen leaves room for the extension within common 255-byte
// filesystem limits.
const maxFilenameLen = 200

// SanitizeFilename derives a download filename from a board title. Characters
// that are unsafe in filenames become dashes; an empty or blank title falls
// back to "board".
func SanitizeFilename(title string) string {
	name := unsafeFilenameChars.ReplaceAllString(title, "-")
	name = strings.TrimSpace(name)
	if name == "" {
		return "board"
	}
	return stringutil.TruncateString(name, maxFilenameLen)
}
