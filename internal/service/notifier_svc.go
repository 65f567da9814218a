package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// 通知事件
const (
	EventContratEnvoye   = "contrat.envoye"
	EventContratRenvoye  = "contrat.renvoye"
	EventRappelLoyer     = "rappel.loyer"
	EventBienPublie      = "bien.publie"
	EventBienRejete      = "bien.rejete"
	EventRevisionTraitee = "revision.traitee"
)

// Notification 发给租客 / 业主的消息
type Notification struct {
	Event        string                 `json:"event"`
	Canal        string                 `json:"canal"`
	Destinataire string                 `json:"destinataire"`
	Sujet        string                 `json:"sujet"`
	Corps        string                 `json:"corps"`
	Meta         map[string]interface{} `json:"meta,omitempty"`
}

// Notifier 消息投递接口
type Notifier interface {
	Notify(ctx context.Context, n *Notification) error
}

// WebhookNotifier 通过 webhook 投递，由外部服务负责发送邮件 / 短信
type WebhookNotifier struct {
	client *resty.Client
	url    string
}

// NewWebhookNotifier url 为空时只记录日志
func NewWebhookNotifier(url string) *WebhookNotifier {
	client := resty.New().
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "Seek-Immo/1.0")
	return &WebhookNotifier{client: client, url: url}
}

func (n *WebhookNotifier) Notify(ctx context.Context, msg *Notification) error {
	if n.url == "" {
		log.Printf("[Notifier] webhook 未配置，仅记录: event=%s to=%s sujet=%s", msg.Event, msg.Destinataire, msg.Sujet)
		return nil
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(msg).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("通知发送失败: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("通知服务拒绝 (Status %d): %s", resp.StatusCode(), resp.String())
	}

	log.Printf("[Notifier] 已投递: event=%s to=%s", msg.Event, msg.Destinataire)
	return nil
}
