package food

import (
	"FoodShare-Backend/entities"
	"FoodShare-Backend/pkg/realtime"
	"context"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"mime/multipart"
	"strings"
	"sync"
	"time"
)

// --- in-memory FoodRepository ---

// memFoodRepo applies the same conditional semantics as the SQL repository.
type memFoodRepo struct {
	mu       sync.Mutex
	items    map[string]*entities.FoodItem
	order    []string
	addCalls int
	getErr   error
}

func newMemFoodRepo() *memFoodRepo {
	return &memFoodRepo{items: make(map[string]*entities.FoodItem)}
}

func (r *memFoodRepo) put(item entities.FoodItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID.String()] = &item
	r.order = append(r.order, item.ID.String())
}

func (r *memFoodRepo) AddFoodItem(_ context.Context, foodItem *entities.FoodItem) error {
	r.mu.Lock()
	r.addCalls++
	r.mu.Unlock()

	item := *foodItem
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	r.put(item)
	return nil
}

func (r *memFoodRepo) GetFoodItemByID(_ context.Context, id string) (*entities.FoodItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *item
	return &cp, nil
}

// newest first, like ORDER BY created_at DESC for sequential inserts
func (r *memFoodRepo) list(keep func(*entities.FoodItem) bool) ([]*entities.FoodItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	var out []*entities.FoodItem
	for i := len(r.order) - 1; i >= 0; i-- {
		item, ok := r.items[r.order[i]]
		if !ok || !keep(item) {
			continue
		}
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memFoodRepo) GetFoodItemsByDonor(_ context.Context, donorID string) ([]*entities.FoodItem, error) {
	return r.list(func(item *entities.FoodItem) bool { return item.DonorID.String() == donorID })
}

func (r *memFoodRepo) GetUnclaimedFoodItems(_ context.Context) ([]*entities.FoodItem, error) {
	return r.list(func(item *entities.FoodItem) bool { return !item.Claimed })
}

func (r *memFoodRepo) ClaimFoodItem(_ context.Context, id string, claimedBy uuid.UUID, claimedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.Claimed || !item.ExpiryTime.After(claimedAt) {
		return false, nil
	}
	item.Claimed = true
	item.ClaimedBy = &claimedBy
	item.ClaimedAt = &claimedAt
	return true, nil
}

func (r *memFoodRepo) DeleteUnclaimedFoodItem(_ context.Context, id string, donorID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.Claimed || item.DonorID.String() != donorID {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

// --- UserRepository mock ---

type mockUserRepo struct {
	getUserByIDFn func(ctx context.Context, id string) (*entities.User, error)
}

func (m *mockUserRepo) CreateUser(context.Context, *entities.User) error { return nil }

func (m *mockUserRepo) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetUserByEmail(context.Context, string) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) CheckEmailExists(context.Context, string) (bool, error) { return false, nil }

// --- AwsS3 mock ---

const testBucketURL = "https://foodshare.s3.ap-southeast-1.amazonaws.com/"

type mockS3 struct {
	uploadFileFn func(fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error)
	deleted      []string
}

func (m *mockS3) UploadFile(fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error) {
	if m.uploadFileFn != nil {
		return m.uploadFileFn(fileName, file, folder, allowed...)
	}
	return folder + "/" + fileName + ".jpg", nil
}

func (m *mockS3) DeleteFile(objectKey string) error {
	m.deleted = append(m.deleted, objectKey)
	return nil
}

func (m *mockS3) GetObjectKeyFromLink(link string) string {
	if !strings.HasPrefix(link, testBucketURL) {
		return ""
	}
	return strings.TrimPrefix(link, testBucketURL)
}

func (m *mockS3) GetPublicLinkKey(objectKey string) string {
	return testBucketURL + objectKey
}

// --- Mailer mock ---

type sentMail struct {
	to, subject, body string
}

type mockMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *mockMailer) SendMail(toEmail string, subject string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{toEmail, subject, body})
	return nil
}

// --- Publisher mock ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []realtime.ChangeEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev realtime.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []realtime.ChangeType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]realtime.ChangeType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}
