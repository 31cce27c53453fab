package interceptor

import (
	"net/http"
	"time"

	"github.com/kbukum/bridge"
	"github.com/kbukum/bridge/codec"
	"github.com/kbukum/bridge/logger"
)

// Logging logs every response at info level, or warn for statuses of 400
// and above. It never stops the chain.
func Logging(log *logger.Logger) bridge.ResponseInterceptor {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("interceptor")
	return bridge.ResponseInterceptorFunc(func(call *bridge.Call, resp *http.Response, v *codec.Value) bridge.ProcessResult {
		fields := logger.MergeWithDuration(logger.Fields(
			logger.FieldCallID, call.ID(),
			logger.FieldTag, call.Tag(),
			logger.FieldEndpoint, call.Endpoint(),
			logger.FieldMethod, call.Method(),
			logger.FieldURL, call.URL(),
			"shape", v.Kind().String(),
		), time.Since(call.CreatedAt()))

		if resp == nil {
			log.Warn("response without metadata", fields)
			return bridge.Continue()
		}
		fields[logger.FieldStatus] = resp.StatusCode
		if resp.StatusCode >= http.StatusBadRequest {
			log.Warn("response", fields)
		} else {
			log.Info("response", fields)
		}
		return bridge.Continue()
	})
}
