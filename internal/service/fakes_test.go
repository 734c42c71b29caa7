package service

import (
	"github.com/minhvu/Skillport/internal/model"
	"github.com/minhvu/Skillport/internal/repository"
	"gorm.io/gorm"
)

// In-memory repository fakes. Each embeds an err field that, when set, is
// returned from every method to exercise the failure paths.

type fakeQuestionRepo struct {
	questions []model.Question
	counts    []repository.SubjectLevelCount
	err       error

	createdBatches [][]model.Question
}

func (r *fakeQuestionRepo) Create(question *model.Question) error {
	if r.err != nil {
		return r.err
	}
	question.ID = uint(len(r.questions) + 1)
	r.questions = append(r.questions, *question)
	return nil
}

func (r *fakeQuestionRepo) CreateBatch(questions []model.Question) error {
	if r.err != nil {
		return r.err
	}
	r.createdBatches = append(r.createdBatches, questions)
	r.questions = append(r.questions, questions...)
	return nil
}

func (r *fakeQuestionRepo) DeleteAll() error {
	if r.err != nil {
		return r.err
	}
	r.questions = nil
	return nil
}

func (r *fakeQuestionRepo) Count() (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.questions)), nil
}

func (r *fakeQuestionRepo) FindRandom(subject string, level *int, limit int) ([]model.Question, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []model.Question
	for _, q := range r.questions {
		if q.Subject != subject {
			continue
		}
		if level != nil && q.DifficultyLevel != *level {
			continue
		}
		out = append(out, q)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) FindByIDs(ids []uint) ([]model.Question, error) {
	if r.err != nil {
		return nil, r.err
	}
	wanted := make(map[uint]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []model.Question
	for _, q := range r.questions {
		if wanted[q.ID] {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) CountBySubjectAndLevel() ([]repository.SubjectLevelCount, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.counts, nil
}

type fakeResultRepo struct {
	results []model.Result
	err     error
	avgErr  error
}

func (r *fakeResultRepo) Create(result *model.Result) error {
	if r.err != nil {
		return r.err
	}
	result.ID = uint(len(r.results) + 1)
	r.results = append(r.results, *result)
	return nil
}

func (r *fakeResultRepo) FindByIDAndUser(id uint, userID uint) (*model.Result, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.results {
		if r.results[i].ID == id && r.results[i].UserID == userID {
			return &r.results[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeResultRepo) FindAllByUser(userID uint) ([]model.Result, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []model.Result
	for i := len(r.results) - 1; i >= 0; i-- {
		if r.results[i].UserID == userID {
			out = append(out, r.results[i])
		}
	}
	return out, nil
}

func (r *fakeResultRepo) FindRecentByUser(userID uint, limit int) ([]model.Result, error) {
	all, err := r.FindAllByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeResultRepo) AvgAccuracyByUser(userID uint) (float64, error) {
	if r.avgErr != nil {
		return 0, r.avgErr
	}
	var sum float64
	var n int
	for _, result := range r.results {
		if result.UserID == userID {
			sum += result.Accuracy
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

type fakeUserRepo struct {
	users []model.User
	err   error
}

func (r *fakeUserRepo) Create(user *model.User) error {
	if r.err != nil {
		return r.err
	}
	user.ID = uint(len(r.users) + 1)
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.users {
		if r.users[i].Email == email {
			return &r.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.users {
		if r.users[i].ID == id {
			return &r.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeProfileRepo struct {
	profiles  map[uint]*model.Profile
	err       error
	updateErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uint]*model.Profile)}
}

func (r *fakeProfileRepo) Create(profile *model.Profile) error {
	if r.err != nil {
		return r.err
	}
	profile.ID = uint(len(r.profiles) + 1)
	stored := *profile
	r.profiles[profile.UserID] = &stored
	return nil
}

func (r *fakeProfileRepo) FindByUserID(userID uint) (*model.Profile, error) {
	if r.err != nil {
		return nil, r.err
	}
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *profile
	return &copied, nil
}

func (r *fakeProfileRepo) Update(profile *model.Profile) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if r.err != nil {
		return r.err
	}
	stored := *profile
	r.profiles[profile.UserID] = &stored
	return nil
}
