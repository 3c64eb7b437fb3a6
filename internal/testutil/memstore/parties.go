package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
)

type supplierRepo struct{ v view }

func (r *supplierRepo) unique(st *state, s *entity.Supplier) error {
	for _, x := range st.suppliers {
		if x.ID == s.ID {
			continue
		}
		if x.Email == s.Email {
			return fmt.Errorf("%w: suppliers_email_key", domain.ErrDuplicate)
		}
		if x.ICE == s.ICE {
			return fmt.Errorf("%w: suppliers_ice_key", domain.ErrDuplicate)
		}
	}
	return nil
}

func (r *supplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	return r.v.write("suppliers.create", func(st *state) error {
		if err := r.unique(st, s); err != nil {
			return err
		}
		c := *s
		st.suppliers[s.ID] = &c
		return nil
	})
}

func (r *supplierRepo) get(match func(s *entity.Supplier) bool) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.v.read(func(st *state) error {
		for _, s := range st.suppliers {
			if match(s) {
				c := *s
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	return r.get(func(s *entity.Supplier) bool { return s.ID == id })
}

func (r *supplierRepo) GetByEmail(_ context.Context, email string) (*entity.Supplier, error) {
	return r.get(func(s *entity.Supplier) bool { return s.Email == email })
}

func (r *supplierRepo) GetByICE(_ context.Context, ice string) (*entity.Supplier, error) {
	return r.get(func(s *entity.Supplier) bool { return s.ICE == ice })
}

func (r *supplierRepo) ExistsByEmail(_ context.Context, email, excludeID string) (bool, error) {
	s, err := r.get(func(s *entity.Supplier) bool { return s.Email == email && s.ID != excludeID })
	return s != nil, err
}

func (r *supplierRepo) ExistsByICE(_ context.Context, ice, excludeID string) (bool, error) {
	s, err := r.get(func(s *entity.Supplier) bool { return s.ICE == ice && s.ID != excludeID })
	return s != nil, err
}

func (r *supplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	return r.v.write("suppliers.update", func(st *state) error {
		if _, ok := st.suppliers[s.ID]; !ok {
			return nil
		}
		if err := r.unique(st, s); err != nil {
			return err
		}
		c := *s
		st.suppliers[s.ID] = &c
		return nil
	})
}

func (r *supplierRepo) Delete(_ context.Context, id string) error {
	return r.v.write("suppliers.delete", func(st *state) error {
		for _, o := range st.orders {
			if o.SupplierID == id {
				return fmt.Errorf("%w: purchase_orders_supplier_id_fkey", domain.ErrConflict)
			}
		}
		delete(st.suppliers, id)
		return nil
	})
}

func (r *supplierRepo) Search(_ context.Context, f repository.SupplierFilter) ([]*entity.Supplier, error) {
	kw := strings.ToLower(strings.TrimSpace(f.Keyword))
	out := make([]*entity.Supplier, 0)
	err := r.v.read(func(st *state) error {
		for _, s := range st.suppliers {
			if kw != "" && !containsAny(kw, s.CompanyName, s.City, s.Email, s.ICE) {
				continue
			}
			if f.City != "" && !strings.EqualFold(s.City, f.City) {
				continue
			}
			if f.CompanyName != "" && !containsAny(strings.ToLower(f.CompanyName), s.CompanyName) {
				continue
			}
			c := *s
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CompanyName < out[j].CompanyName })
	return out, err
}

func containsAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

type userRepo struct{ v view }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	return r.v.write("users.create", func(st *state) error {
		for _, x := range st.users {
			if x.Email == u.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		c := *u
		st.users[u.ID] = &c
		return nil
	})
}

func (r *userRepo) get(match func(u *entity.User) bool) (*entity.User, error) {
	var out *entity.User
	err := r.v.read(func(st *state) error {
		for _, u := range st.users {
			if match(u) {
				c := *u
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.get(func(u *entity.User) bool { return u.ID == id })
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.get(func(u *entity.User) bool { return u.Email == email })
}
