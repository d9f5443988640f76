package board

import (
	"context"
	defError "errors"
	"time"

	"theatre-production-manager/internal/errors"
	"theatre-production-manager/internal/store"
	"theatre-production-manager/internal/subscription"
)

type AccessChecker interface {
	CanEdit(ctx context.Context, showID string, userID uint64) (bool, error)
}

type Service interface {
	CreateBoard(ctx context.Context, userID uint64, plan string, board *Board) error
	GetBoardTree(ctx context.Context, boardID string) (*BoardTree, error)
	ListShowBoards(ctx context.Context, showID string) ([]Board, error)
	DeleteBoard(ctx context.Context, boardID string, userID uint64) error
	CreateList(ctx context.Context, boardID string, userID uint64, list *List) error
	CreateCard(ctx context.Context, listID string, boardID string, userID uint64, card *Card) error
	UpdateCard(ctx context.Context, cardID string, userID uint64, boardID string, partial map[string]any) error
}

type DefaultService struct {
	store  store.Store
	access AccessChecker
	clock  store.Clock
}

func NewService(st store.Store, access AccessChecker, clock store.Clock) Service {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &DefaultService{store: st, access: access, clock: clock}
}

func (s *DefaultService) CreateBoard(ctx context.Context, userID uint64, plan string, board *Board) error {
	allowed, err := s.access.CanEdit(ctx, board.ShowID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.Forbidden("No edit rights on this show", nil)
	}

	count, err := s.store.CountDocuments(ctx, store.Boards, store.Where("showId", "==", board.ShowID))
	if err != nil {
		return err
	}
	if !subscription.CanCreate(plan, subscription.ResourceBoards, count) {
		return errors.QuotaExceeded(subscription.ResourceBoards, subscription.Limit(plan, subscription.ResourceBoards))
	}

	now := s.clock()
	board.CreatedBy = userID
	board.CreatedAt = now
	board.UpdatedAt = now
	board.ID = ""

	id, err := s.store.AddDocument(ctx, store.Boards, board)
	if err != nil {
		return err
	}
	board.ID = id
	return nil
}

// GetBoardTree expands a board into its lists and each list into its cards
func (s *DefaultService) GetBoardTree(ctx context.Context, boardID string) (*BoardTree, error) {
	doc, err := s.store.GetDocument(ctx, store.Boards, boardID)
	if defError.Is(err, store.ErrNotFound) {
		return nil, errors.NotFound("Board not found", err)
	}
	if err != nil {
		return nil, err
	}

	var board Board
	if err := doc.DataTo(&board); err != nil {
		return nil, err
	}
	board.ID = doc.ID

	listDocs, err := s.store.GetDocuments(ctx, store.Lists, store.Where("boardId", "==", boardID))
	if err != nil {
		return nil, err
	}

	tree := &BoardTree{Board: board, Lists: make([]ListTree, 0, len(listDocs))}
	for _, listDoc := range listDocs {
		var list List
		if err := listDoc.DataTo(&list); err != nil {
			return nil, err
		}
		list.ID = listDoc.ID

		cardDocs, err := s.store.GetDocuments(ctx, store.Cards, store.Where("listId", "==", list.ID))
		if err != nil {
			return nil, err
		}

		cards := make([]Card, 0, len(cardDocs))
		for _, cardDoc := range cardDocs {
			var card Card
			if err := cardDoc.DataTo(&card); err != nil {
				return nil, err
			}
			card.ID = cardDoc.ID
			cards = append(cards, card)
		}
		tree.Lists = append(tree.Lists, ListTree{List: list, Cards: cards})
	}
	return tree, nil
}

func (s *DefaultService) ListShowBoards(ctx context.Context, showID string) ([]Board, error) {
	docs, err := s.store.GetDocuments(ctx, store.Boards, store.Where("showId", "==", showID))
	if err != nil {
		return nil, err
	}

	boards := make([]Board, 0, len(docs))
	for _, doc := range docs {
		var b Board
		if err := doc.DataTo(&b); err != nil {
			return nil, err
		}
		b.ID = doc.ID
		boards = append(boards, b)
	}
	return boards, nil
}

// DeleteBoard removes a board with its lists and cards
func (s *DefaultService) DeleteBoard(ctx context.Context, boardID string, userID uint64) error {
	tree, err := s.GetBoardTree(ctx, boardID)
	if err != nil {
		return err
	}

	allowed, err := s.access.CanEdit(ctx, tree.Board.ShowID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.Forbidden("No edit rights on this show", nil)
	}

	for _, list := range tree.Lists {
		for _, card := range list.Cards {
			if err := s.store.DeleteDocument(ctx, store.Cards, card.ID); err != nil {
				return err
			}
		}
		if err := s.store.DeleteDocument(ctx, store.Lists, list.List.ID); err != nil {
			return err
		}
	}
	return s.store.DeleteDocument(ctx, store.Boards, boardID)
}

func (s *DefaultService) CreateList(ctx context.Context, boardID string, userID uint64, list *List) error {
	board, err := s.boardOf(ctx, boardID)
	if err != nil {
		return err
	}

	allowed, err := s.access.CanEdit(ctx, board.ShowID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.Forbidden("No edit rights on this show", nil)
	}

	count, err := s.store.CountDocuments(ctx, store.Lists, store.Where("boardId", "==", boardID))
	if err != nil {
		return err
	}

	list.BoardID = boardID
	list.Position = int(count)
	list.ID = ""

	id, err := s.store.AddDocument(ctx, store.Lists, list)
	if err != nil {
		return err
	}
	list.ID = id
	return nil
}

func (s *DefaultService) CreateCard(ctx context.Context, listID string, boardID string, userID uint64, card *Card) error {
	board, err := s.boardOf(ctx, boardID)
	if err != nil {
		return err
	}

	allowed, err := s.access.CanEdit(ctx, board.ShowID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.Forbidden("No edit rights on this show", nil)
	}

	count, err := s.store.CountDocuments(ctx, store.Cards, store.Where("listId", "==", listID))
	if err != nil {
		return err
	}

	card.ListID = listID
	card.Position = int(count)
	card.CreatedAt = s.clock()
	if card.Status == "" {
		card.Status = CardTodo
	}
	card.ID = ""

	id, err := s.store.AddDocument(ctx, store.Cards, card)
	if err != nil {
		return err
	}
	card.ID = id
	return nil
}

func (s *DefaultService) UpdateCard(ctx context.Context, cardID string, userID uint64, boardID string, partial map[string]any) error {
	board, err := s.boardOf(ctx, boardID)
	if err != nil {
		return err
	}

	allowed, err := s.access.CanEdit(ctx, board.ShowID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.Forbidden("No edit rights on this show", nil)
	}

	delete(partial, "listId")
	return s.store.UpdateDocument(ctx, store.Cards, cardID, partial)
}

func (s *DefaultService) boardOf(ctx context.Context, boardID string) (*Board, error) {
	doc, err := s.store.GetDocument(ctx, store.Boards, boardID)
	if defError.Is(err, store.ErrNotFound) {
		return nil, errors.NotFound("Board not found", err)
	}
	if err != nil {
		return nil, err
	}

	var board Board
	if err := doc.DataTo(&board); err != nil {
		return nil, err
	}
	board.ID = doc.ID
	return &board, nil
}
