// Package metrics 排班业务指标。
//
// 服务层依赖 Recorder 接口；生产环境注入 Prometheus 实现，测试中使用 Nop。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder 业务指标记录接口
type Recorder interface {
	// AssignmentResult 记录一次排班操作结果（success / capacity_exceeded / conflict ...）
	AssignmentResult(result string)
	// AttendanceEvent 记录一次签到/签退，status 为写入后的出勤状态
	AttendanceEvent(event, status string)
	// ConflictsDetected 记录一次冲突扫描发现的冲突数
	ConflictsDetected(n int)
}

// Nop 不做任何记录的实现
type Nop struct{}

// NewNop 创建空实现
func NewNop() *Nop { return &Nop{} }

func (*Nop) AssignmentResult(string)         {}
func (*Nop) AttendanceEvent(string, string) {}
func (*Nop) ConflictsDetected(int)          {}

var _ Recorder = (*Nop)(nil)

// Prometheus 基于 Prometheus 的实现，首次使用时注册
type Prometheus struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	assignments *prometheus.CounterVec
	attendance  *prometheus.CounterVec
	conflicts   prometheus.Histogram
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus reg 为空时使用 prometheus.DefaultRegisterer，namespace 默认 "roster"
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "roster"
	}
	p := &Prometheus{reg: reg, namespace: namespace}
	p.ensureRegistered()
	return p
}

func (p *Prometheus) ensureRegistered() {
	p.once.Do(func() {
		p.assignments = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "assignment",
			Name:      "results_total",
			Help:      "Total shift assignment attempts by result.",
		}, []string{"result"})

		p.attendance = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "attendance",
			Name:      "events_total",
			Help:      "Total check-in/check-out events by resulting status.",
		}, []string{"event", "status"})

		p.conflicts = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "conflict",
			Name:      "detected_per_scan",
			Help:      "Number of scheduling conflicts found per scan.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50},
		})

		p.reg.MustRegister(p.assignments, p.attendance, p.conflicts)
	})
}

func (p *Prometheus) AssignmentResult(result string) {
	p.assignments.WithLabelValues(result).Inc()
}

func (p *Prometheus) AttendanceEvent(event, status string) {
	p.attendance.WithLabelValues(event, status).Inc()
}

func (p *Prometheus) ConflictsDetected(n int) {
	p.conflicts.Observe(float64(n))
}
