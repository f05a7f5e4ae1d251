package application

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/medrec/healthcare-api/internal/domain/entity"
	"github.com/medrec/healthcare-api/internal/domain/repository"
	"github.com/medrec/healthcare-api/pkg/rules"
)

// DoctorService owns the shared doctor directory. Postgres is the system of
// record; Elasticsearch mirrors it for search and is best-effort.
type DoctorService struct {
	Repo    repository.DoctorRepository
	ES      *elasticsearch.Client
	ESIndex string
	Logger  *logrus.Logger
}

func NewDoctorService(repo repository.DoctorRepository, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *DoctorService {
	return &DoctorService{Repo: repo, ES: es, ESIndex: esIndex, Logger: logger}
}

func (s *DoctorService) List(ctx context.Context) ([]entity.Doctor, error) {
	return s.Repo.List(ctx)
}

func (s *DoctorService) Get(ctx context.Context, id int64) (*entity.Doctor, error) {
	d, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return d, err
}

func (s *DoctorService) Create(ctx context.Context, c rules.DoctorCandidate) (*entity.Doctor, rules.FieldErrors, error) {
	if errs := rules.Doctor(c); !errs.Empty() {
		return nil, errs, nil
	}
	d := &entity.Doctor{Name: c.Name, Specialization: c.Specialization}
	if err := s.Repo.Create(ctx, d); err != nil {
		return nil, nil, err
	}
	s.index(ctx, d)
	return d, nil, nil
}

func (s *DoctorService) Update(ctx context.Context, id int64, c rules.DoctorCandidate) (*entity.Doctor, rules.FieldErrors, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if errs := rules.Doctor(c); !errs.Empty() {
		return nil, errs, nil
	}
	d.Name = c.Name
	d.Specialization = c.Specialization
	if err := s.Repo.Update(ctx, d); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	s.index(ctx, d)
	return d, nil, nil
}

func (s *DoctorService) Delete(ctx context.Context, id int64) error {
	err := s.Repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	s.deleteFromIndex(ctx, id)
	return nil
}

func (s *DoctorService) index(ctx context.Context, d *entity.Doctor) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":             d.ID,
		"name":           d.Name,
		"specialization": d.Specialization,
		"updated_at":     d.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESIndex,
		DocumentID: strconv.FormatInt(d.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("doctor_id", d.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("doctor_id", d.ID).Warn("es index response error")
	}
}

func (s *DoctorService) deleteFromIndex(ctx context.Context, id int64) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("doctor_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search runs a multi_match query over name and specialization.
func (s *DoctorService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "specialization"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
