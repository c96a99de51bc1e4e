package devapi

import (
	"encoding/json"
	"net/http"

	"github.com/dgrijalva/jwt-go"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Mogeshaue/Happy-Fox-sub000/core"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/role"
	"github.com/Mogeshaue/Happy-Fox-sub000/storage/database/dummy"
)

const (
	claimsKey = "claims"
	repoKey   = "repo"
	roleKey   = "role"
)

var (
	// validator tags of the attributes each entity type accepts
	rules = map[entity.Type]map[string]string{
		entity.Courses:       {"name": "required", "description": "required"},
		entity.Cohorts:       {"name": "required", "course": "required,numeric", "start_date": "omitempty,datetime=2006-01-02", "end_date": "omitempty,datetime=2006-01-02"},
		entity.Teams:         {"name": "required", "cohort": "required,numeric", "description": "omitempty"},
		entity.Invitations:   {"email": "required,email", "team": "required,numeric"},
		entity.Organizations: {"name": "required", "slug": "omitempty,alphanum_", "description": "omitempty"},
		entity.Users:         {"email": "required,email", "first_name": "omitempty", "last_name": "omitempty", "role": "required,oneof=admin mentor student"},
	}

	// foreign keys, attribute -> referenced type
	refs = map[entity.Type]map[string]entity.Type{
		entity.Cohorts:     {"course": entity.Courses},
		entity.Teams:       {"cohort": entity.Cohorts},
		entity.Invitations: {"team": entity.Teams},
	}

	// Unique lists the attributes no two entities of a type may share.
	Unique = map[entity.Type][]string{
		entity.Courses:       {"name"},
		entity.Organizations: {"slug"},
		entity.Users:         {"email"},
	}

	errForbidden = echo.NewHTTPError(http.StatusForbidden, "You do not have permission to perform this action.")
	errNotFound  = echo.NewHTTPError(http.StatusNotFound, "Not found.")
)

type entityAPI struct {
	db         *dummydb.DB
	validate   *validator.Validate
	translator ut.Translator
}

func contextRole(ctx echo.Context) (role.Interface, error) {
	if r, ok := ctx.Get(roleKey).(role.Interface); ok {
		return r, nil
	}
	token, ok := ctx.Get(claimsKey).(*jwt.Token)
	if !ok {
		return nil, errForbidden
	}
	claims, ok := token.Claims.(*role.Claims)
	if !ok {
		return nil, errForbidden
	}
	r, err := role.FromFlags(claims.Flags())
	if err != nil {
		return nil, errForbidden
	}
	ctx.Set(roleKey, r)
	return r, nil
}

// tableMiddleware resolves the entity type of the path and checks the caller may read it.
func (api *entityAPI) tableMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		t := entity.Type(ctx.Param("type"))
		repo, err := api.db.Repository(t)
		if err != nil {
			return errNotFound
		}
		r, err := contextRole(ctx)
		if err != nil {
			return err
		}
		if !r.CanView(t) {
			return errForbidden
		}
		ctx.Set(repoKey, repo)
		return next(ctx)
	}
}

func (api *entityAPI) mutateMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		r, err := contextRole(ctx)
		if err != nil {
			return err
		}
		if !r.CanMutate(entity.Type(ctx.Param("type"))) {
			return errForbidden
		}
		return next(ctx)
	}
}

func contextRepo(ctx echo.Context) *dummydb.Repository {
	return ctx.Get(repoKey).(*dummydb.Repository)
}

// Handlers

func (api *entityAPI) list(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, contextRepo(ctx).List())
}

func (api *entityAPI) retrieve(ctx echo.Context) error {
	e, err := contextRepo(ctx).Get(ctx.Param("id"))
	if err != nil {
		return errNotFound
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *entityAPI) create(ctx echo.Context) error {
	t := entity.Type(ctx.Param("type"))

	var data entity.Entity
	if err := json.NewDecoder(ctx.Request().Body).Decode(&data); err != nil || data == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "JSON parse error.")
	}
	row, err := api.clean(t, data)
	if err != nil {
		return err
	}
	if t == entity.Invitations {
		row["token"] = uuid.New().String()
		row["accepted"] = false
	}

	e, err := contextRepo(ctx).Create(row)
	if err != nil {
		return errors.Wrap(err, "creating "+string(t))
	}
	return ctx.JSON(http.StatusCreated, e)
}

func (api *entityAPI) destroy(ctx echo.Context) error {
	if err := contextRepo(ctx).Delete(ctx.Param("id")); err != nil {
		if err == dummydb.ErrNotFound {
			return errNotFound
		}
		return errors.Wrap(err, "deleting entity")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// clean keeps the attributes the type accepts, validates them and checks foreign keys.
func (api *entityAPI) clean(t entity.Type, data entity.Entity) (entity.Entity, error) {
	row := make(entity.Entity)
	var fldErrs []core.FieldError
	for field, tags := range rules[t] {
		val := core.CleanString(data.Get(field))
		if err := api.validate.Var(val, tags); err != nil {
			var vErrs validator.ValidationErrors
			if errors.As(err, &vErrs) && len(vErrs) > 0 {
				fldErrs = append(fldErrs, core.FieldError{Field: field, Error: vErrs[0].Translate(api.translator)})
				continue
			}
			return nil, err
		}
		if val == "" {
			continue
		}
		if ref, ok := refs[t][field]; ok {
			repo, err := api.db.Repository(ref)
			if err != nil {
				return nil, err
			}
			if _, err := repo.Get(val); err != nil {
				fldErrs = append(fldErrs, core.FieldError{Field: field, Error: "invalid pk \"" + val + "\" - object does not exist"})
				continue
			}
		}
		row[field] = val
	}
	if len(fldErrs) > 0 {
		return nil, core.NewValidationError(nil, fldErrs...)
	}
	return row, nil
}
