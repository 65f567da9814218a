package seekapi

import (
	"context"
	"fmt"
	"net/http"

	"seek_immo_v1_202610/internal/api/dto"
)

// ==================== 房源 ====================

func (c *Client) GetBien(ctx context.Context, id int64) (*dto.BienVO, error) {
	var out dto.BienVO
	if err := c.get(ctx, fmt.Sprintf("/api/biens/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBien(ctx context.Context, p *dto.BienPayload) (*dto.BienVO, error) {
	var out dto.BienVO
	if err := c.post(ctx, "/api/biens", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBien(ctx context.Context, id int64, p *dto.BienPayload) (*dto.BienVO, error) {
	var out dto.BienVO
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/biens/%d", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitRevision 已发布房源的修改走修订接口，审核通过前公开内容不变
func (c *Client) SubmitRevision(ctx context.Context, id int64, p *dto.BienPayload) (*dto.RevisionVO, error) {
	var out dto.RevisionVO
	if err := c.post(ctx, fmt.Sprintf("/api/biens/%d/revisions", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BiensDisponibles(ctx context.Context) ([]dto.BienVO, error) {
	var out []dto.BienVO
	if err := c.get(ctx, "/api/biens/disponibles", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ==================== 参考数据 ====================

func (c *Client) options(ctx context.Context, name string) ([]dto.Option, error) {
	var out []dto.Option
	if err := c.get(ctx, "/api/lookups/"+name, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) groups(ctx context.Context, name string) ([]dto.OptionGroup, error) {
	var out []dto.OptionGroup
	if err := c.get(ctx, "/api/lookups/"+name, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TypesLogement(ctx context.Context) ([]dto.Option, error) {
	return c.options(ctx, "types-logement")
}

func (c *Client) TypesTransaction(ctx context.Context) ([]dto.Option, error) {
	return c.options(ctx, "types-transaction")
}

func (c *Client) Statuts(ctx context.Context) ([]dto.Option, error) {
	return c.options(ctx, "statuts")
}

func (c *Client) Pays(ctx context.Context) ([]dto.Option, error) {
	return c.options(ctx, "pays")
}

func (c *Client) Villes(ctx context.Context, paysID int64) ([]dto.Option, error) {
	return c.options(ctx, fmt.Sprintf("pays/%d/villes", paysID))
}

func (c *Client) Equipements(ctx context.Context) ([]dto.OptionGroup, error) {
	return c.groups(ctx, "equipements")
}

func (c *Client) Meubles(ctx context.Context) ([]dto.OptionGroup, error) {
	return c.groups(ctx, "meubles")
}
