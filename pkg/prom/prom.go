package prom

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	xhttp "github.com/xisxz/agente-vendas/pkg/http"
	"github.com/xisxz/agente-vendas/pkg/logger"
)

// Metric subsystems.
const (
	SystemChat          = "chat"
	SystemFollowUps     = "followups"
	SystemNotifications = "notifications"
	SystemCRM           = "crm"
)

// Metric names.
const (
	MetricMessagesProcessed        = "messages_processed_total"
	MetricEscalations              = "escalations_total"
	MetricFollowUpsScheduled       = "scheduled_total"
	MetricFollowUpsExecuted        = "executed_total"
	MetricNotificationsDispatched  = "dispatched_total"
	MetricNotificationDispatchTime = "dispatch_duration_seconds"
	MetricCRMSyncErrors            = "sync_errors_total"
)

const (
	TypeCounter      = "counter"
	TypeCounterVec   = "counterVec"
	TypeHistogramVec = "histogramVec"
)

var lockCreateMetricLock = &sync.Mutex{}
var namespace = "none"

var MetricSystemEnabled = false

var MetricCollectionCounters = make(map[string]prometheus.Counter)
var MetricCollectionCounterVec = make(map[string]*prometheus.CounterVec)
var MetricCollectionHistogramVec = make(map[string]*prometheus.HistogramVec)

var defaultLabels prometheus.Labels

func Create(host string, env string, nameSpace string) error {
	defaultLabels = make(prometheus.Labels)
	defaultLabels["env"] = env
	defaultLabels["instance"] = host
	namespace = nameSpace
	MetricSystemEnabled = true

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	hasError(createCounterVec(SystemChat, MetricMessagesProcessed, []string{"channel", "intent"}))
	hasError(createCounterVec(SystemChat, MetricEscalations, []string{"priority"}))
	hasError(createCounterVec(SystemFollowUps, MetricFollowUpsScheduled, []string{"type"}))
	hasError(createCounterVec(SystemFollowUps, MetricFollowUpsExecuted, []string{"type"}))
	hasError(createCounterVec(SystemNotifications, MetricNotificationsDispatched, []string{"channel", "status"}))
	hasError(createHistogramVec(SystemNotifications, MetricNotificationDispatchTime, []string{"channel"}))
	hasError(createCounter(SystemCRM, MetricCRMSyncErrors))

	return err
}

func CreateMetric(metricType, metricSubsystem, metricName string, labelsValues ...string) error {
	switch metricType {
	case TypeCounter:
		return createCounter(metricSubsystem, metricName)
	case TypeCounterVec:
		return createCounterVec(metricSubsystem, metricName, labelsValues)
	case TypeHistogramVec:
		return createHistogramVec(metricSubsystem, metricName, labelsValues)
	}
	return fmt.Errorf("metric type %s is not defined", metricType)
}

func ListenAndServer(port string, url string) {
	hh := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.GET(url, hh)
	logger.Info("[metrics-server] listening...", "url", url)
	if err := s.ListenAndServe(port); err != nil {
		logger.Panic("[metrics-server] http listen error", "error", err)
	}
}

func createCounter(subsystem, name string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	MetricCollectionCounters[subsystem+name] = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        "",
		ConstLabels: defaultLabels,
	})
	return prometheus.Register(MetricCollectionCounters[subsystem+name])
}

func createCounterVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	MetricCollectionCounterVec[subsystem+name] = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        "",
		ConstLabels: defaultLabels,
	}, labels)
	return prometheus.Register(MetricCollectionCounterVec[subsystem+name])
}

func createHistogramVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	MetricCollectionHistogramVec[subsystem+name] = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        "",
		ConstLabels: defaultLabels,
		Buckets:     prometheus.DefBuckets,
	}, labels)
	return prometheus.Register(MetricCollectionHistogramVec[subsystem+name])
}

func IncCounter(subsystem, name string) {
	AddCounter(subsystem, name, 1)
}

func AddCounter(subsystem, name string, number float64) {
	if MetricSystemEnabled == false {
		return
	}
	if v, ok := MetricCollectionCounters[subsystem+name]; ok {
		v.Add(number)
		return
	}
	logger.Warn("[metrics-server] counter not found", "subsystem", subsystem, "name", name)
}

func AddCounterVec(subsystem, name string, num float64, labelValues ...string) {
	if MetricSystemEnabled == false {
		return
	}
	if v, ok := MetricCollectionCounterVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Add(num)
		return
	}
	logger.Warn("[metrics-server] counter vec not found", "subsystem", subsystem, "name", name)
}

func IncCounterVec(subsystem, name string, labelValues ...string) {
	AddCounterVec(subsystem, name, 1, labelValues...)
}

func AddHistogramVec(subsystem, name string, number float64, labelValues ...string) {
	if MetricSystemEnabled == false {
		return
	}
	if v, ok := MetricCollectionHistogramVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Observe(number)
		return
	}
	logger.Warn("[metrics-server] histogram vec not found", "subsystem", subsystem, "name", name)
}

func IncMessageProcessed(channel, intent string) {
	IncCounterVec(SystemChat, MetricMessagesProcessed, channel, intent)
}

func IncEscalation(priority string) {
	IncCounterVec(SystemChat, MetricEscalations, priority)
}

func IncFollowUpScheduled(followupType string) {
	IncCounterVec(SystemFollowUps, MetricFollowUpsScheduled, followupType)
}

func IncFollowUpExecuted(followupType string) {
	IncCounterVec(SystemFollowUps, MetricFollowUpsExecuted, followupType)
}

func IncNotificationDispatched(channel, status string) {
	IncCounterVec(SystemNotifications, MetricNotificationsDispatched, channel, status)
}

func AddNotificationDispatchDuration(seconds float64, channel string) {
	AddHistogramVec(SystemNotifications, MetricNotificationDispatchTime, seconds, channel)
}

func IncCRMSyncError() {
	IncCounter(SystemCRM, MetricCRMSyncErrors)
}
