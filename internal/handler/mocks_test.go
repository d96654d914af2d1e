package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/sadokz/lamaitrise/internal/model"
	"github.com/sadokz/lamaitrise/internal/repository"
	"github.com/sadokz/lamaitrise/internal/security"
	"github.com/sadokz/lamaitrise/internal/storage"
)

// errNetBlocked stands in for a guard rejection.
var errNetBlocked = errors.New("blocked address")

// mockURLGuard lets each test decide which URLs pass.
type mockURLGuard struct {
	validateFunc func(rawURL string) error
}

var _ security.URLGuardService = (*mockURLGuard)(nil)

func (m *mockURLGuard) ValidateURL(rawURL string) error {
	if m.validateFunc != nil {
		return m.validateFunc(rawURL)
	}
	return nil
}

func (m *mockURLGuard) NewSafeClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// mockMetrics records every metrics call for assertion.
type mockMetrics struct {
	textSaves      []bool
	uploads        []bool
	reconcileSteps []string
}

func (m *mockMetrics) RecordTextSave(changed bool) { m.textSaves = append(m.textSaves, changed) }
func (m *mockMetrics) RecordUpload(success bool)   { m.uploads = append(m.uploads, success) }
func (m *mockMetrics) RecordReconcileStep(kind string, success bool) {
	m.reconcileSteps = append(m.reconcileSteps, kind)
}

type mockAuthService struct {
	loginFunc        func(ctx context.Context, email, password string) (*model.Session, error)
	logoutFunc       func(ctx context.Context, sessionID string) error
	currentAdminFunc func(ctx context.Context, sessionID string) (*model.Admin, *model.Session, error)
	setEditModeFunc  func(ctx context.Context, sessionID string, on bool) error
}

var _ AuthServiceInterface = (*mockAuthService)(nil)

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.Session, error) {
	return m.loginFunc(ctx, email, password)
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	return m.logoutFunc(ctx, sessionID)
}

func (m *mockAuthService) CurrentAdmin(ctx context.Context, sessionID string) (*model.Admin, *model.Session, error) {
	return m.currentAdminFunc(ctx, sessionID)
}

func (m *mockAuthService) SetEditMode(ctx context.Context, sessionID string, on bool) error {
	return m.setEditModeFunc(ctx, sessionID, on)
}

type mockTextService struct {
	listByPageFunc func(ctx context.Context, page string) ([]*model.SiteText, error)
	saveFunc       func(ctx context.Context, key model.TextKey, draft string) (string, bool, error)
}

var _ TextServiceInterface = (*mockTextService)(nil)

func (m *mockTextService) ListByPage(ctx context.Context, page string) ([]*model.SiteText, error) {
	return m.listByPageFunc(ctx, page)
}

func (m *mockTextService) Save(ctx context.Context, key model.TextKey, draft string) (string, bool, error) {
	return m.saveFunc(ctx, key, draft)
}

type mockReferenceRepo struct {
	listAllFunc     func(ctx context.Context) ([]model.Reference, error)
	findByIDFunc    func(ctx context.Context, id string) (*model.Reference, error)
	createFunc      func(ctx context.Context, ref *model.Reference) error
	updateFunc      func(ctx context.Context, ref *model.Reference) error
	deleteFunc      func(ctx context.Context, id string) error
	moveFunc        func(ctx context.Context, id string, dir repository.MoveDirection) error
	listImagesFunc  func(ctx context.Context, ownerID string) ([]model.SecondaryImage, error)
	insertImageFunc func(ctx context.Context, img *model.SecondaryImage) error
	updateImageFunc func(ctx context.Context, img *model.SecondaryImage) error
	deleteImageFunc func(ctx context.Context, id string) error
}

var _ ReferenceRepoInterface = (*mockReferenceRepo)(nil)

func (m *mockReferenceRepo) ListAll(ctx context.Context) ([]model.Reference, error) {
	return m.listAllFunc(ctx)
}

func (m *mockReferenceRepo) FindByID(ctx context.Context, id string) (*model.Reference, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockReferenceRepo) Create(ctx context.Context, ref *model.Reference) error {
	return m.createFunc(ctx, ref)
}

func (m *mockReferenceRepo) Update(ctx context.Context, ref *model.Reference) error {
	return m.updateFunc(ctx, ref)
}

func (m *mockReferenceRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockReferenceRepo) Move(ctx context.Context, id string, dir repository.MoveDirection) error {
	return m.moveFunc(ctx, id, dir)
}

func (m *mockReferenceRepo) ListImages(ctx context.Context, ownerID string) ([]model.SecondaryImage, error) {
	return m.listImagesFunc(ctx, ownerID)
}

func (m *mockReferenceRepo) InsertImage(ctx context.Context, img *model.SecondaryImage) error {
	return m.insertImageFunc(ctx, img)
}

func (m *mockReferenceRepo) UpdateImage(ctx context.Context, img *model.SecondaryImage) error {
	return m.updateImageFunc(ctx, img)
}

func (m *mockReferenceRepo) DeleteImage(ctx context.Context, id string) error {
	return m.deleteImageFunc(ctx, id)
}

type mockDomainRepo struct {
	listAllFunc  func(ctx context.Context) ([]model.Domain, error)
	findByIDFunc func(ctx context.Context, id string) (*model.Domain, error)
	createFunc   func(ctx context.Context, d *model.Domain) error
	updateFunc   func(ctx context.Context, d *model.Domain) error
	deleteFunc   func(ctx context.Context, id string) error
	moveFunc     func(ctx context.Context, id string, dir repository.MoveDirection) error
}

var _ DomainRepoInterface = (*mockDomainRepo)(nil)

func (m *mockDomainRepo) ListAll(ctx context.Context) ([]model.Domain, error) {
	return m.listAllFunc(ctx)
}

func (m *mockDomainRepo) FindByID(ctx context.Context, id string) (*model.Domain, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockDomainRepo) Create(ctx context.Context, d *model.Domain) error {
	return m.createFunc(ctx, d)
}

func (m *mockDomainRepo) Update(ctx context.Context, d *model.Domain) error {
	return m.updateFunc(ctx, d)
}

func (m *mockDomainRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockDomainRepo) Move(ctx context.Context, id string, dir repository.MoveDirection) error {
	return m.moveFunc(ctx, id, dir)
}

type mockCompetenceRepo struct {
	listAllFunc  func(ctx context.Context) ([]model.Competence, error)
	findByIDFunc func(ctx context.Context, id string) (*model.Competence, error)
	createFunc   func(ctx context.Context, c *model.Competence) error
	updateFunc   func(ctx context.Context, c *model.Competence) error
	deleteFunc   func(ctx context.Context, id string) error
	moveFunc     func(ctx context.Context, id string, dir repository.MoveDirection) error
}

var _ CompetenceRepoInterface = (*mockCompetenceRepo)(nil)

func (m *mockCompetenceRepo) ListAll(ctx context.Context) ([]model.Competence, error) {
	return m.listAllFunc(ctx)
}

func (m *mockCompetenceRepo) FindByID(ctx context.Context, id string) (*model.Competence, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockCompetenceRepo) Create(ctx context.Context, c *model.Competence) error {
	return m.createFunc(ctx, c)
}

func (m *mockCompetenceRepo) Update(ctx context.Context, c *model.Competence) error {
	return m.updateFunc(ctx, c)
}

func (m *mockCompetenceRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockCompetenceRepo) Move(ctx context.Context, id string, dir repository.MoveDirection) error {
	return m.moveFunc(ctx, id, dir)
}

type mockSettingsRepo struct {
	getVisibilityFunc  func(ctx context.Context) (model.SectionVisibility, error)
	saveVisibilityFunc func(ctx context.Context, v model.SectionVisibility) error
	getThemeFunc       func(ctx context.Context) (model.ColorTheme, error)
	saveThemeFunc      func(ctx context.Context, t model.ColorTheme) error
	getHeroFunc        func(ctx context.Context, page string) (*model.HeroMedia, error)
	saveHeroFunc       func(ctx context.Context, h model.HeroMedia) error
	getContactFunc     func(ctx context.Context) (model.ContactInfo, error)
	saveContactFunc    func(ctx context.Context, c model.ContactInfo) error
	getFounderFunc     func(ctx context.Context) (*model.Founder, error)
	saveFounderFunc    func(ctx context.Context, f model.Founder) error
}

var _ SettingsRepoInterface = (*mockSettingsRepo)(nil)

func (m *mockSettingsRepo) GetSectionVisibility(ctx context.Context) (model.SectionVisibility, error) {
	return m.getVisibilityFunc(ctx)
}

func (m *mockSettingsRepo) SaveSectionVisibility(ctx context.Context, v model.SectionVisibility) error {
	return m.saveVisibilityFunc(ctx, v)
}

func (m *mockSettingsRepo) GetColorTheme(ctx context.Context) (model.ColorTheme, error) {
	return m.getThemeFunc(ctx)
}

func (m *mockSettingsRepo) SaveColorTheme(ctx context.Context, t model.ColorTheme) error {
	return m.saveThemeFunc(ctx, t)
}

func (m *mockSettingsRepo) GetHeroMedia(ctx context.Context, page string) (*model.HeroMedia, error) {
	return m.getHeroFunc(ctx, page)
}

func (m *mockSettingsRepo) SaveHeroMedia(ctx context.Context, h model.HeroMedia) error {
	return m.saveHeroFunc(ctx, h)
}

func (m *mockSettingsRepo) GetContactInfo(ctx context.Context) (model.ContactInfo, error) {
	return m.getContactFunc(ctx)
}

func (m *mockSettingsRepo) SaveContactInfo(ctx context.Context, c model.ContactInfo) error {
	return m.saveContactFunc(ctx, c)
}

func (m *mockSettingsRepo) GetFounder(ctx context.Context) (*model.Founder, error) {
	return m.getFounderFunc(ctx)
}

func (m *mockSettingsRepo) SaveFounder(ctx context.Context, f model.Founder) error {
	return m.saveFounderFunc(ctx, f)
}

type mockUploadService struct {
	uploadFunc func(ctx context.Context, r io.Reader, declaredSize int64) (*storage.UploadResult, error)
	deleteFunc func(ctx context.Context, name string) error
}

var _ UploadServiceInterface = (*mockUploadService)(nil)

func (m *mockUploadService) Upload(ctx context.Context, r io.Reader, declaredSize int64) (*storage.UploadResult, error) {
	return m.uploadFunc(ctx, r, declaredSize)
}

func (m *mockUploadService) Delete(ctx context.Context, name string) error {
	return m.deleteFunc(ctx, name)
}
