package analysis

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ingredient-safety/internal/core/faq"
	"ingredient-safety/internal/pkg/common"
)

// HandleFAQ 處理成分安全問答
func HandleFAQ(responder *faq.Responder, debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req common.FAQRequest
		if !bindJSON(c, &req, debug) {
			return
		}

		answer, err := responder.Answer(req.Question)
		if err != nil {
			common.WriteError(c, err, debug)
			return
		}

		common.LogDebug("FAQ answered",
			zap.String("request_id", common.RequestID(c)),
			zap.Bool("matched", answer.Matched),
			zap.String("topic", answer.Topic),
		)
		c.JSON(http.StatusOK, answer)
	}
}
