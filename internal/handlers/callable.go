package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func init() {
	// Keep integers in free-form maps such as updateData as json.Number; the mongo
	// driver stores those as int64 instead of double.
	binding.EnableDecoderUseNumber = true
}

// callableRequest is the {"data": {...}} envelope every endpoint receives.
// Binding tags on T are validated along with the envelope.
type callableRequest[T any] struct {
	Data T `json:"data"`
}

// flexString accepts a JSON string or number, keeping numbers in their literal form.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected a string or a number, got %s", b)
	}
	*s = flexString(n.String())
	return nil
}

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func bindCallable[T any](c *gin.Context, dst *T) error {
	var req callableRequest[T]
	if err := c.ShouldBindJSON(&req); err != nil {
		return err
	}
	*dst = req.Data
	return nil
}

func writeResult(c *gin.Context, result interface{}) {
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func writeError(c *gin.Context, err *CallableError) {
	c.AbortWithStatusJSON(err.HTTPCode(), gin.H{"error": errorBody{
		Status:  err.Status(),
		Message: err.Message,
		Details: err.Details,
	}})
}

// WriteCallableError lets middleware answer in the callable error shape.
func WriteCallableError(c *gin.Context, err *CallableError) {
	writeError(c, err)
}
