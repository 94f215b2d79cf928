package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"farmtrack/internal/domain"
)

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	byID      map[string]*domain.User
	getErr    error
	updateErr error
	nextID    int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) add(u *domain.User) *domain.User {
	f.byID[u.ID] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id, salt, passwordHash string) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Salt = salt
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLogin = &at
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, params domain.PaginationParams) ([]*domain.User, int, error) {
	ids := make([]string, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var users []*domain.User
	for _, id := range ids {
		users = append(users, f.byID[id])
	}
	start := params.Offset()
	if start > len(users) {
		start = len(users)
	}
	end := start + params.PageSize
	if end > len(users) {
		end = len(users)
	}
	return users[start:end], len(f.byID), nil
}

// fakeCodeRepo implements domain.VerificationCodeRepository for tests.
type fakeCodeRepo struct {
	codes     map[string]string // email -> code hash
	createErr error
}

func newFakeCodeRepo() *fakeCodeRepo {
	return &fakeCodeRepo{codes: make(map[string]string)}
}

func (f *fakeCodeRepo) Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.codes[email] = codeHash
	return nil
}

func (f *fakeCodeRepo) Consume(ctx context.Context, email, codeHash string) (bool, error) {
	if f.codes[email] != codeHash {
		return false, nil
	}
	delete(f.codes, email)
	return true, nil
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct {
	salt string
	hash string
}

func (f *fakePasswordHasher) GenerateSalt() (string, error) { return f.salt, nil }
func (f *fakePasswordHasher) Hash(salt, password string) (string, error) {
	if f.hash != "" {
		return f.hash, nil
	}
	return "hash-" + password, nil
}
func (f *fakePasswordHasher) Compare(hash, salt, password string) error {
	if f.hash != "" && hash != f.hash {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(userID, phone string, roles []string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID, nil
}

// fakeEmailService implements domain.EmailService for tests, recording every
// send.
type fakeEmailService struct {
	verifications []*domain.VerificationEmailData
	resets        []*domain.VerificationEmailData
	resetLangs    []string
	alerts        []*domain.AlertEmailData
	alertLangs    []string
	err           error
}

func (f *fakeEmailService) SendVerificationCode(ctx context.Context, lang string, data *domain.VerificationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.verifications = append(f.verifications, data)
	return nil
}

func (f *fakeEmailService) SendPasswordResetCode(ctx context.Context, lang string, data *domain.VerificationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.resets = append(f.resets, data)
	f.resetLangs = append(f.resetLangs, lang)
	return nil
}

func (f *fakeEmailService) SendAlert(ctx context.Context, lang string, data *domain.AlertEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.alerts = append(f.alerts, data)
	f.alertLangs = append(f.alertLangs, lang)
	return nil
}

// fakeDeviceRepo implements domain.DeviceRepository for tests.
type fakeDeviceRepo struct {
	byToken map[string]*domain.Device
	nextID  int
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{byToken: make(map[string]*domain.Device)}
}

func (f *fakeDeviceRepo) Create(ctx context.Context, d *domain.Device) error {
	f.nextID++
	d.ID = fmt.Sprintf("device-%d", f.nextID)
	f.byToken[d.DeviceToken] = d
	return nil
}

func (f *fakeDeviceRepo) GetByToken(ctx context.Context, token string) (*domain.Device, error) {
	if d, ok := f.byToken[token]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeDeviceRepo) Update(ctx context.Context, d *domain.Device) error {
	if _, ok := f.byToken[d.DeviceToken]; !ok {
		return sql.ErrNoRows
	}
	cp := *d
	f.byToken[d.DeviceToken] = &cp
	return nil
}

func (f *fakeDeviceRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Device, error) {
	var devices []*domain.Device
	for _, d := range f.byToken {
		if d.UserID == userID {
			devices = append(devices, d)
		}
	}
	return devices, nil
}

// fakeNotificationRepo implements domain.NotificationRepository for tests.
type fakeNotificationRepo struct {
	byID      map[string]*domain.Notification
	createErr error
	nextID    int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{byID: make(map[string]*domain.Notification)}
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	n.ID = fmt.Sprintf("notification-%d", f.nextID)
	cp := *n
	f.byID[n.ID] = &cp
	return nil
}

func (f *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	if n, ok := f.byID[id]; ok {
		cp := *n
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeNotificationRepo) ListActiveByUserID(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	var active []*domain.Notification
	for _, n := range f.byID {
		if n.UserID == userID && !n.Read {
			active = append(active, n)
		}
	}
	return active, len(active), nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id string) error {
	n, ok := f.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	n.Read = true
	return nil
}

// fakeBroadcaster implements domain.NotificationBroadcaster for tests.
type fakeBroadcaster struct {
	pushed map[string][]*domain.Notification
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{pushed: make(map[string][]*domain.Notification)}
}

func (f *fakeBroadcaster) Push(userID string, n *domain.Notification) {
	f.pushed[userID] = append(f.pushed[userID], n)
}

// fakePoultryRepo implements domain.PoultryRepository for tests.
type fakePoultryRepo struct {
	flocks    map[string]*domain.Flock
	eggs      []*domain.EggLayingRecord
	weighings []*domain.WeighingRecord
	perfs     []*domain.GrowthPerformance
	nextID    int
}

func newFakePoultryRepo() *fakePoultryRepo {
	return &fakePoultryRepo{flocks: make(map[string]*domain.Flock)}
}

func (f *fakePoultryRepo) CreateFlock(ctx context.Context, flock *domain.Flock) error {
	for _, existing := range f.flocks {
		if existing.Identifier == flock.Identifier {
			return domain.ErrDuplicateIdentifier
		}
	}
	f.nextID++
	flock.ID = fmt.Sprintf("flock-%d", f.nextID)
	cp := *flock
	f.flocks[flock.ID] = &cp
	return nil
}

func (f *fakePoultryRepo) GetFlockByID(ctx context.Context, id string) (*domain.Flock, error) {
	if flock, ok := f.flocks[id]; ok {
		cp := *flock
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakePoultryRepo) UpdateFlock(ctx context.Context, flock *domain.Flock) error {
	if _, ok := f.flocks[flock.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *flock
	f.flocks[flock.ID] = &cp
	return nil
}

func (f *fakePoultryRepo) ListFlocks(ctx context.Context, filter domain.FlockFilter, params domain.PaginationParams) ([]*domain.Flock, int, error) {
	ids := make([]string, 0, len(f.flocks))
	for id, flock := range f.flocks {
		if filter.ProductionType != "" && flock.ProductionType != filter.ProductionType {
			continue
		}
		if filter.Status != "" && flock.Status != filter.Status {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var flocks []*domain.Flock
	for _, id := range ids {
		flocks = append(flocks, f.flocks[id])
	}
	total := len(flocks)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}
	return flocks[start:end], total, nil
}

func (f *fakePoultryRepo) CreateEggLayingRecord(ctx context.Context, rec *domain.EggLayingRecord) error {
	f.nextID++
	rec.ID = fmt.Sprintf("egg-%d", f.nextID)
	cp := *rec
	// Newest first, matching the real repository's ordering.
	f.eggs = append([]*domain.EggLayingRecord{&cp}, f.eggs...)
	return nil
}

func (f *fakePoultryRepo) ListEggLayingRecords(ctx context.Context, filter domain.EggLayingFilter, params domain.PaginationParams) ([]*domain.EggLayingRecord, int, error) {
	var records []*domain.EggLayingRecord
	for _, rec := range f.eggs {
		if filter.FlockID != "" && rec.FlockID != filter.FlockID {
			continue
		}
		records = append(records, rec)
	}
	total := len(records)
	if len(records) > params.PageSize {
		records = records[:params.PageSize]
	}
	return records, total, nil
}

func (f *fakePoultryRepo) CreateWeighingRecord(ctx context.Context, rec *domain.WeighingRecord) error {
	f.nextID++
	rec.ID = fmt.Sprintf("weighing-%d", f.nextID)
	cp := *rec
	f.weighings = append([]*domain.WeighingRecord{&cp}, f.weighings...)
	return nil
}

func (f *fakePoultryRepo) ListWeighingRecords(ctx context.Context, flockID string, params domain.PaginationParams) ([]*domain.WeighingRecord, int, error) {
	var records []*domain.WeighingRecord
	for _, rec := range f.weighings {
		if rec.FlockID == flockID {
			records = append(records, rec)
		}
	}
	return records, len(records), nil
}

func (f *fakePoultryRepo) CreateGrowthPerformance(ctx context.Context, perf *domain.GrowthPerformance) error {
	f.nextID++
	perf.ID = fmt.Sprintf("perf-%d", f.nextID)
	cp := *perf
	f.perfs = append([]*domain.GrowthPerformance{&cp}, f.perfs...)
	return nil
}

func (f *fakePoultryRepo) ListGrowthPerformances(ctx context.Context, flockID string, params domain.PaginationParams) ([]*domain.GrowthPerformance, int, error) {
	var perfs []*domain.GrowthPerformance
	for _, perf := range f.perfs {
		if perf.FlockID == flockID {
			perfs = append(perfs, perf)
		}
	}
	total := len(perfs)
	if len(perfs) > params.PageSize {
		perfs = perfs[:params.PageSize]
	}
	return perfs, total, nil
}

// fakeFisheryRepo implements domain.FisheryRepository for tests.
type fakeFisheryRepo struct {
	ponds     map[string]*domain.Pond
	readings  []*domain.WaterQualityReading
	stockings []*domain.FishStocking
	nextID    int
}

func newFakeFisheryRepo() *fakeFisheryRepo {
	return &fakeFisheryRepo{ponds: make(map[string]*domain.Pond)}
}

func (f *fakeFisheryRepo) CreatePond(ctx context.Context, pond *domain.Pond) error {
	for _, existing := range f.ponds {
		if existing.Name == pond.Name {
			return domain.ErrDuplicateIdentifier
		}
	}
	f.nextID++
	pond.ID = fmt.Sprintf("pond-%d", f.nextID)
	cp := *pond
	f.ponds[pond.ID] = &cp
	return nil
}

func (f *fakeFisheryRepo) GetPondByID(ctx context.Context, id string) (*domain.Pond, error) {
	if pond, ok := f.ponds[id]; ok {
		cp := *pond
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeFisheryRepo) UpdatePond(ctx context.Context, pond *domain.Pond) error {
	if _, ok := f.ponds[pond.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *pond
	f.ponds[pond.ID] = &cp
	return nil
}

func (f *fakeFisheryRepo) ListPonds(ctx context.Context, params domain.PaginationParams) ([]*domain.Pond, int, error) {
	ids := make([]string, 0, len(f.ponds))
	for id := range f.ponds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var ponds []*domain.Pond
	for _, id := range ids {
		ponds = append(ponds, f.ponds[id])
	}
	return ponds, len(ponds), nil
}

func (f *fakeFisheryRepo) CreateWaterQualityReading(ctx context.Context, reading *domain.WaterQualityReading) error {
	f.nextID++
	reading.ID = fmt.Sprintf("reading-%d", f.nextID)
	cp := *reading
	f.readings = append([]*domain.WaterQualityReading{&cp}, f.readings...)
	return nil
}

func (f *fakeFisheryRepo) ListWaterQualityReadings(ctx context.Context, pondID string, params domain.PaginationParams) ([]*domain.WaterQualityReading, int, error) {
	var readings []*domain.WaterQualityReading
	for _, r := range f.readings {
		if r.PondID == pondID {
			readings = append(readings, r)
		}
	}
	return readings, len(readings), nil
}

func (f *fakeFisheryRepo) LatestWaterQualityByPond(ctx context.Context) ([]*domain.WaterQualityReading, error) {
	seen := make(map[string]bool)
	var latest []*domain.WaterQualityReading
	for _, r := range f.readings {
		if seen[r.PondID] {
			continue
		}
		seen[r.PondID] = true
		latest = append(latest, r)
	}
	return latest, nil
}

func (f *fakeFisheryRepo) CreateFishStocking(ctx context.Context, stocking *domain.FishStocking) error {
	f.nextID++
	stocking.ID = fmt.Sprintf("stocking-%d", f.nextID)
	cp := *stocking
	f.stockings = append(f.stockings, &cp)
	return nil
}

func (f *fakeFisheryRepo) ListFishStockings(ctx context.Context, pondID string, params domain.PaginationParams) ([]*domain.FishStocking, int, error) {
	var stockings []*domain.FishStocking
	for _, s := range f.stockings {
		if s.PondID == pondID {
			stockings = append(stockings, s)
		}
	}
	return stockings, len(stockings), nil
}

func (f *fakeFisheryRepo) CountFishByPondID(ctx context.Context, pondID string) (int, error) {
	count := 0
	for _, s := range f.stockings {
		if s.PondID == pondID {
			count += s.Count
		}
	}
	return count, nil
}

// fakeCattleRepo implements domain.CattleRepository for tests.
type fakeCattleRepo struct {
	animals map[string]*domain.Animal
	milk    []*domain.MilkProductionRecord
	nextID  int
}

func newFakeCattleRepo() *fakeCattleRepo {
	return &fakeCattleRepo{animals: make(map[string]*domain.Animal)}
}

func (f *fakeCattleRepo) CreateAnimal(ctx context.Context, animal *domain.Animal) error {
	f.nextID++
	animal.ID = fmt.Sprintf("animal-%d", f.nextID)
	cp := *animal
	f.animals[animal.ID] = &cp
	return nil
}

func (f *fakeCattleRepo) GetAnimalByID(ctx context.Context, id string) (*domain.Animal, error) {
	if a, ok := f.animals[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCattleRepo) GetAnimalByTag(ctx context.Context, tagNumber string) (*domain.Animal, error) {
	for _, a := range f.animals {
		if a.TagNumber == tagNumber {
			cp := *a
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCattleRepo) UpdateAnimal(ctx context.Context, animal *domain.Animal) error {
	if _, ok := f.animals[animal.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *animal
	f.animals[animal.ID] = &cp
	return nil
}

func (f *fakeCattleRepo) ListAnimals(ctx context.Context, filter domain.AnimalFilter, params domain.PaginationParams) ([]*domain.Animal, int, error) {
	ids := make([]string, 0, len(f.animals))
	for id, a := range f.animals {
		if filter.Breed != "" && a.Breed != filter.Breed {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var animals []*domain.Animal
	for _, id := range ids {
		animals = append(animals, f.animals[id])
	}
	return animals, len(animals), nil
}

func (f *fakeCattleRepo) CreateMilkProductionRecord(ctx context.Context, rec *domain.MilkProductionRecord) error {
	f.nextID++
	rec.ID = fmt.Sprintf("milk-%d", f.nextID)
	cp := *rec
	f.milk = append(f.milk, &cp)
	return nil
}

func (f *fakeCattleRepo) ListMilkProductionRecords(ctx context.Context, animalID string, params domain.PaginationParams) ([]*domain.MilkProductionRecord, int, error) {
	var records []*domain.MilkProductionRecord
	for _, rec := range f.milk {
		if rec.AnimalID == animalID {
			records = append(records, rec)
		}
	}
	return records, len(records), nil
}

// fakePushSender implements domain.PushSender for tests.
type fakePushSender struct {
	tokens []string
	titles []string
	err    error
}

func (f *fakePushSender) SendPush(ctx context.Context, tokens []string, title, body string) error {
	if f.err != nil {
		return f.err
	}
	f.tokens = append(f.tokens, tokens...)
	f.titles = append(f.titles, title)
	return nil
}
