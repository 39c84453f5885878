package smartfolderservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"docvault/internal/models"

	uuid "github.com/satori/go.uuid"
)

const pkg = "smartFolderService/"

// SmartFolderService manages saved queries and their evaluation. Evaluation
// results are cached per (folder, user, page); every folder mutation drops
// the folder's cache entries before returning, so a later evaluation never
// serves results computed under the old definition or scope.
type SmartFolderService struct {
	log        *slog.Logger
	folderRepo FolderRepository
	searcher   Searcher
	evalCache  EvalCache
}

func New(log *slog.Logger, folderRepo FolderRepository, searcher Searcher, evalCache EvalCache) *SmartFolderService {
	return &SmartFolderService{
		log:        log,
		folderRepo: folderRepo,
		searcher:   searcher,
		evalCache:  evalCache,
	}
}

// CreateFolder validates the definition up front so a folder that can never
// evaluate is rejected at save time.
func (sfs *SmartFolderService) CreateFolder(ctx context.Context, user *models.User, name string, definition string, scope models.FolderScope) (*models.SmartFolder, error) {
	op := pkg + "CreateFolder"

	log := sfs.log.With(slog.String("op", op), slog.String("user_id", user.ID))

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	if !scope.Valid() {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	if _, err := ParseDefinition(definition); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	folder := &models.SmartFolder{
		ID:         uuid.NewV4().String(),
		OwnerID:    user.ID,
		OwnerLogin: user.Login,
		OwnerDept:  user.Department,
		Name:       name,
		Definition: definition,
		Scope:      scope,
		IsActive:   true,
	}

	if err := sfs.folderRepo.Create(ctx, folder); err != nil {
		log.Error("failed to create folder", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return folder, nil
}

func (sfs *SmartFolderService) FolderByID(ctx context.Context, user *models.User, folderID string) (*models.SmartFolder, error) {
	op := pkg + "FolderByID"

	folder, err := sfs.loadFolder(ctx, op, folderID)
	if err != nil {
		return nil, err
	}

	if !canEvaluate(user, folder) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	return folder, nil
}

// ListFolders returns the folders the user may evaluate: their own, their
// department's DEPARTMENT folders, and active SHARED folders.
func (sfs *SmartFolderService) ListFolders(ctx context.Context, user *models.User) ([]*models.SmartFolder, error) {
	op := pkg + "ListFolders"

	folders, err := sfs.folderRepo.ListVisible(ctx, user.ID, user.Department, user.IsAdmin)
	if err != nil {
		sfs.log.Error("failed to list folders",
			slog.String("op", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return folders, nil
}

// UpdateFolder applies a partial update. Only the owner or an admin may
// mutate a folder; a changed definition must parse before it is stored.
func (sfs *SmartFolderService) UpdateFolder(ctx context.Context, user *models.User, folderID string, name *string, definition *string, isActive *bool) (*models.SmartFolder, error) {
	op := pkg + "UpdateFolder"

	log := sfs.log.With(slog.String("op", op), slog.String("folder_id", folderID))

	folder, err := sfs.loadFolder(ctx, op, folderID)
	if err != nil {
		return nil, err
	}

	if !user.CanManage(folder.OwnerID) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
		}
		folder.Name = trimmed
	}

	if definition != nil {
		if _, err := ParseDefinition(*definition); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		folder.Definition = *definition
	}

	if isActive != nil {
		folder.IsActive = *isActive
	}

	if err := sfs.folderRepo.Update(ctx, folderID, folder.Name, folder.Definition, folder.IsActive); err != nil {
		log.Error("failed to update folder", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	sfs.invalidate(ctx, log, folderID)

	return folder, nil
}

// ShareFolder changes the folder's visibility scope.
func (sfs *SmartFolderService) ShareFolder(ctx context.Context, user *models.User, folderID string, scope models.FolderScope) (*models.SmartFolder, error) {
	op := pkg + "ShareFolder"

	log := sfs.log.With(slog.String("op", op), slog.String("folder_id", folderID))

	if !scope.Valid() {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	folder, err := sfs.loadFolder(ctx, op, folderID)
	if err != nil {
		return nil, err
	}

	if !user.CanManage(folder.OwnerID) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	if err := sfs.folderRepo.SetScope(ctx, folderID, scope); err != nil {
		log.Error("failed to change folder scope", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	folder.Scope = scope

	sfs.invalidate(ctx, log, folderID)

	return folder, nil
}

// DeleteFolder deactivates the folder. Folders are never hard-deleted, so
// an accidental delete is recoverable by an update.
func (sfs *SmartFolderService) DeleteFolder(ctx context.Context, user *models.User, folderID string) error {
	op := pkg + "DeleteFolder"

	log := sfs.log.With(slog.String("op", op), slog.String("folder_id", folderID))

	folder, err := sfs.loadFolder(ctx, op, folderID)
	if err != nil {
		return err
	}

	if !user.CanManage(folder.OwnerID) {
		return fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	if err := sfs.folderRepo.Deactivate(ctx, folderID); err != nil {
		log.Error("failed to deactivate folder", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	sfs.invalidate(ctx, log, folderID)

	return nil
}

// Evaluate runs the folder's stored query as the calling user. Results come
// from the per-user cache when fresh; the underlying search is always
// scoped to the caller, so two users evaluating the same folder can see
// different result sets.
func (sfs *SmartFolderService) Evaluate(ctx context.Context, user *models.User, folderID string, page, pageSize int) (*models.SearchPage, error) {
	op := pkg + "Evaluate"

	log := sfs.log.With(
		slog.String("op", op),
		slog.String("folder_id", folderID),
		slog.String("user_id", user.ID))

	folder, err := sfs.loadFolder(ctx, op, folderID)
	if err != nil {
		return nil, err
	}

	if !canEvaluate(user, folder) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	query, err := ParseDefinition(folder.Definition)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query.Page = page
	query.PageSize = pageSize
	query.Normalize()

	if cached, err := sfs.evalCache.Get(ctx, folderID, user.ID, query.Page, query.PageSize); err == nil {
		var result models.SearchPage
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return &result, nil
		}
		log.Warn("discarding undecodable cache entry")
	}

	result, err := sfs.searcher.Search(ctx, user, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if raw, err := json.Marshal(result); err == nil {
		if err := sfs.evalCache.Set(ctx, folderID, user.ID, query.Page, query.PageSize, string(raw)); err != nil {
			log.Warn("failed to cache evaluation", slog.String("error", err.Error()))
		}
	}

	return result, nil
}

func (sfs *SmartFolderService) loadFolder(ctx context.Context, op string, folderID string) (*models.SmartFolder, error) {
	folder, err := sfs.folderRepo.FolderByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, models.ErrFolderNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrFolderNotFound)
		}
		sfs.log.Error("failed to load folder",
			slog.String("op", op),
			slog.String("folder_id", folderID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return folder, nil
}

// invalidate drops the folder's cached evaluations. Runs before the
// mutation returns to the caller; an eviction failure is logged and the
// entries expire by TTL instead.
func (sfs *SmartFolderService) invalidate(ctx context.Context, log *slog.Logger, folderID string) {
	if err := sfs.evalCache.InvalidateFolder(ctx, folderID); err != nil {
		log.Warn("failed to invalidate evaluation cache", slog.String("error", err.Error()))
	}
}

// canEvaluate implements the scope matrix. Owners and admins always may;
// DEPARTMENT opens the folder to the owner's department; SHARED opens it to
// everyone while the folder is active.
func canEvaluate(user *models.User, folder *models.SmartFolder) bool {
	if user.IsAdmin || user.ID == folder.OwnerID {
		return true
	}

	if !folder.IsActive {
		return false
	}

	switch folder.Scope {
	case models.ScopeDepartment:
		return folder.OwnerDept != "" && user.Department == folder.OwnerDept
	case models.ScopeShared:
		return true
	}

	return false
}
