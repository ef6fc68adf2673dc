// Package metrics counts bowling activity and exposes it in the Prometheus
// text exposition format.
//
// A Recorder is fed by the simulator and the lane API:
//
//	ObserveThrow(t)     every accepted throw; strikes and spares are also
//	                    counted on their own
//	ObserveRejected(e)  every refused throw, labelled by reason
//	ObserveGame(score)  every completed game; feeds the final-score histogram
//
// Families builds client_model MetricFamily values from the current counts and
// Write encodes them with prometheus/common/expfmt. Recorder also implements
// http.Handler so it can be mounted at /metrics directly.
//
// All methods are safe for concurrent use.
package metrics
