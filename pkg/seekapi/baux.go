package seekapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"seek_immo_v1_202610/internal/api/dto"
)

// ==================== 租约 ====================

func (c *Client) bail(ctx context.Context, method, path string, body interface{}) (*dto.BailVO, error) {
	var out dto.BailVO
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetBail(ctx context.Context, id int64) (*dto.BailVO, error) {
	return c.bail(ctx, http.MethodGet, fmt.Sprintf("/api/baux/%d", id), nil)
}

// GetActiveBailByBien 没有生效租约时返回 nil
func (c *Client) GetActiveBailByBien(ctx context.Context, bienID int64) (*dto.BailVO, error) {
	var page dto.PageResult[dto.BailVO]
	path := fmt.Sprintf("/api/baux?bien_id=%d&statut=ACTIF&page=1&page_size=1", bienID)
	if err := c.get(ctx, path, &page); err != nil {
		return nil, err
	}
	if len(page.Items) == 0 {
		return nil, nil
	}
	return &page.Items[0], nil
}

func (c *Client) CreateBail(ctx context.Context, req *dto.CreateBailRequest) (*dto.BailVO, error) {
	return c.bail(ctx, http.MethodPost, "/api/baux", req)
}

func (c *Client) TerminerBail(ctx context.Context, id int64) (*dto.BailVO, error) {
	return c.bail(ctx, http.MethodPost, fmt.Sprintf("/api/baux/%d/terminer", id), nil)
}

func (c *Client) ResilierBail(ctx context.Context, id int64, motif string) (*dto.BailVO, error) {
	return c.bail(ctx, http.MethodPost, fmt.Sprintf("/api/baux/%d/resilier", id), &dto.ResilierRequest{Motif: motif})
}

func (c *Client) ProlongerBail(ctx context.Context, id int64, dateFin time.Time) (*dto.BailVO, error) {
	return c.bail(ctx, http.MethodPost, fmt.Sprintf("/api/baux/%d/prolonger", id), &dto.ProlongerRequest{DateFinBail: dateFin})
}

func (c *Client) AnnulerBail(ctx context.Context, id int64) (*dto.BailVO, error) {
	return c.bail(ctx, http.MethodPost, fmt.Sprintf("/api/baux/%d/annuler", id), nil)
}

// ==================== 租客 ====================

func (c *Client) CreateLocataire(ctx context.Context, req *dto.LocataireRequest) (*dto.LocataireVO, error) {
	var out dto.LocataireVO
	if err := c.post(ctx, "/api/locataires", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteLocataire(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/locataires/%d", id), nil, nil)
}

// ==================== 合同 ====================

func (c *Client) contrat(ctx context.Context, method, path string) (*dto.ContratVO, error) {
	var out dto.ContratVO
	if err := c.do(ctx, method, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetContratByBail(ctx context.Context, bailID int64) (*dto.ContratVO, error) {
	return c.contrat(ctx, http.MethodGet, fmt.Sprintf("/api/baux/%d/contrat", bailID))
}

func (c *Client) GenerateContrat(ctx context.Context, bailID int64) (*dto.ContratVO, error) {
	return c.contrat(ctx, http.MethodPost, fmt.Sprintf("/api/baux/%d/contrat", bailID))
}

// EnvoyerContrat 激活并发送，一次调用
func (c *Client) EnvoyerContrat(ctx context.Context, id int64) (*dto.ContratVO, error) {
	return c.contrat(ctx, http.MethodPost, fmt.Sprintf("/api/contrats/%d/envoyer", id))
}

func (c *Client) RenvoyerContrat(ctx context.Context, id int64) (*dto.ContratVO, error) {
	return c.contrat(ctx, http.MethodPost, fmt.Sprintf("/api/contrats/%d/renvoyer", id))
}
