package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	alertsTriggered   metric.Int64Counter
	alertsResolved    metric.Int64Counter
	notificationsSent metric.Int64Counter
	smsDeliveries     metric.Int64Counter
)

// Init 注册业务指标。在 otel.Init 之后调用；未调用时各记录函数为空操作。
func Init() error {
	meter := otel.Meter("sentinel")

	var err error
	if alertsTriggered, err = meter.Int64Counter("alerts_triggered_total",
		metric.WithDescription("Alerts created, by level and trigger source")); err != nil {
		return err
	}
	if alertsResolved, err = meter.Int64Counter("alerts_resolved_total",
		metric.WithDescription("Alerts moved to a terminal status")); err != nil {
		return err
	}
	if notificationsSent, err = meter.Int64Counter("notifications_fanout_total",
		metric.WithDescription("Notification rows written during alert fan-out")); err != nil {
		return err
	}
	if smsDeliveries, err = meter.Int64Counter("sms_deliveries_total",
		metric.WithDescription("SMS delivery attempts, by outcome")); err != nil {
		return err
	}
	return nil
}

// AlertTriggered 记录一次警报创建
func AlertTriggered(ctx context.Context, level, source string) {
	if alertsTriggered == nil {
		return
	}
	alertsTriggered.Add(ctx, 1, metric.WithAttributes(
		attribute.String("level", level),
		attribute.String("source", source),
	))
}

// AlertResolved 记录一次警报关闭
func AlertResolved(ctx context.Context, status string) {
	if alertsResolved == nil {
		return
	}
	alertsResolved.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// NotificationsFanout 记录一批通知落库
func NotificationsFanout(ctx context.Context, count int, silent bool) {
	if notificationsSent == nil {
		return
	}
	notificationsSent.Add(ctx, int64(count), metric.WithAttributes(attribute.Bool("silent", silent)))
}

// SMSDelivery 记录一次短信发送结果
func SMSDelivery(ctx context.Context, success bool) {
	if smsDeliveries == nil {
		return
	}
	smsDeliveries.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}
