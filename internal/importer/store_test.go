package importer

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"saveit/internal/db"
	"saveit/internal/models"
	"saveit/internal/validation"
)

// memStore is an in-memory LinkStore, FolderStore and UserStore.
type memStore struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*models.User
	links   []models.Link
	folders []models.Folder

	// uniqueURLs emulates the (user_id, normalized_url) constraint.
	uniqueURLs bool
	failLink   map[string]error // by url
	failFolder map[string]error // by name

	// afterSnapshot, if set, runs after GetLinksByUser returns its copy.
	afterSnapshot func()
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[uuid.UUID]*models.User),
		uniqueURLs: true,
		failLink:   make(map[string]error),
		failFolder: make(map[string]error),
	}
}

func (s *memStore) addUser() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: uuid.New(), Sub: uuid.NewString()}
	s.users[u.ID] = u
	return u.ID
}

func (s *memStore) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, db.ErrUserNotFound
	}
	return u, nil
}

func (s *memStore) GetLinksByUser(_ context.Context, userID uuid.UUID) ([]models.Link, error) {
	s.mu.Lock()
	var out []models.Link
	for _, l := range s.links {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	s.mu.Unlock()

	if s.afterSnapshot != nil {
		s.afterSnapshot()
	}
	return out, nil
}

func (s *memStore) GetLinkByURL(_ context.Context, userID uuid.UUID, url string) (*models.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.links {
		if s.links[i].UserID == userID && validation.NormalizeURL(s.links[i].URL) == validation.NormalizeURL(url) {
			l := s.links[i]
			return &l, nil
		}
	}
	return nil, db.ErrLinkNotFound
}

func (s *memStore) CreateLink(_ context.Context, link *models.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failLink[link.URL]; err != nil {
		return err
	}
	if s.uniqueURLs {
		for _, l := range s.links {
			if l.UserID == link.UserID && validation.NormalizeURL(l.URL) == validation.NormalizeURL(link.URL) {
				return db.ErrDuplicateURL
			}
		}
	}
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	link.UpdatedAt = link.CreatedAt
	s.links = append(s.links, *link)
	return nil
}

func (s *memStore) GetFoldersByUser(_ context.Context, userID uuid.UUID) ([]models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Folder
	for _, f := range s.folders {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *memStore) CreateFolder(_ context.Context, folder *models.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failFolder[folder.Name]; err != nil {
		return err
	}
	owned := make(map[uuid.UUID]bool)
	for _, l := range s.links {
		if l.UserID == folder.UserID {
			owned[l.ID] = true
		}
	}
	for _, id := range folder.LinkIDs {
		if !owned[id] {
			return errors.New("folder references a link the owner does not have")
		}
	}
	if folder.ID == uuid.Nil {
		folder.ID = uuid.New()
	}
	f := *folder
	f.LinkIDs = append([]uuid.UUID(nil), folder.LinkIDs...)
	s.folders = append(s.folders, f)
	return nil
}

func (s *memStore) linksOf(userID uuid.UUID) []models.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Link
	for _, l := range s.links {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out
}

func (s *memStore) foldersOf(userID uuid.UUID) []models.Folder {
	folders, _ := s.GetFoldersByUser(context.Background(), userID)
	return folders
}
