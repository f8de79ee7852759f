package mockapi

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ModelScript scripts the behavior of one mock model. The zero value (plus
// an ID) is a model that supports every feature.
type ModelScript struct {
	ID      string
	OwnedBy string
	Created int64

	// Per-feature failures; nil means the feature succeeds
	FailChat       *ScriptedError
	FailFunctions  *ScriptedError
	FailJSON       *ScriptedError
	FailVision     *ScriptedError
	FailEmbeddings *ScriptedError

	// ChatContent overrides the assistant reply for plain chat requests
	ChatContent string

	// ToolCallName is the function name answered to tool requests
	ToolCallName string

	// JSONContent overrides the reply for json_object requests
	JSONContent string

	// EmbeddingDim is the returned vector size (default 4)
	EmbeddingDim int
}

// ScriptedError is the provider error a scripted failure answers with
type ScriptedError struct {
	Status  int
	Type    string
	Message string
	Code    string
}

// UnsupportedError scripts the 400 invalid-request shape providers answer
// for features a model does not implement.
func UnsupportedError(message string) *ScriptedError {
	return &ScriptedError{
		Status:  http.StatusBadRequest,
		Type:    "invalid_request_error",
		Message: message,
	}
}

// ServerError scripts an opaque provider-side failure
func ServerError(message string) *ScriptedError {
	return &ScriptedError{
		Status:  http.StatusInternalServerError,
		Type:    "server_error",
		Message: message,
	}
}

// DefaultScripts returns the default scripted model list, all fully capable
func DefaultScripts() []ModelScript {
	return []ModelScript{
		{
			ID:      "gpt-3.5-turbo",
			OwnedBy: "openai",
			Created: 1677610602,
		},
		{
			ID:      "gpt-4o",
			OwnedBy: "openai",
			Created: 1715367049,
		},
		{
			ID:      "text-embedding-3-small",
			OwnedBy: "openai",
			Created: 1705948997,
		},
	}
}

// modelEntry is the wire shape of one models-listing item
type modelEntry struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

const chatTemplate = `{"id":"chatcmpl-mock","object":"chat.completion","created":0,"model":"","choices":[{"index":0,"message":{"role":"assistant","content":""},"finish_reason":"stop"}],"usage":{"prompt_tokens":9,"completion_tokens":4,"total_tokens":13}}`

const embeddingsTemplate = `{"object":"list","data":[{"object":"embedding","index":0,"embedding":[]}],"model":"","usage":{"prompt_tokens":3,"total_tokens":3}}`

const messageTemplate = `{"id":"msg_mock","type":"message","role":"assistant","content":[{"type":"text","text":"Hello! How can I help you today?"}],"model":"","stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":8}}`

// handleModels handles the /v1/models endpoint
func (ms *MockServer) handleModels(c *gin.Context) {
	ms.count("models")

	if ms.config.withoutModels {
		c.JSON(http.StatusNotFound, errorEnvelope("invalid_request_error", "this endpoint does not list models", ""))
		return
	}

	entries := make([]modelEntry, 0, len(ms.config.scripts))
	for _, s := range ms.config.scripts {
		entries = append(entries, modelEntry{
			ID:      s.ID,
			Object:  "model",
			Created: s.createdOrNow(),
			OwnedBy: s.OwnedBy,
		})
	}

	c.JSON(http.StatusOK, gin.H{"object": "list", "data": entries})
}

// handleChatCompletions handles the /v1/chat/completions endpoint. The
// request body decides which feature is being exercised: tools, a
// json_object response format, an image content part, or plain chat.
func (ms *MockServer) handleChatCompletions(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorEnvelope("invalid_request_error", "could not read request body", ""))
		return
	}

	feature := detectFeature(body)
	ms.count(feature)

	model := gjson.GetBytes(body, "model").String()
	script, ok := ms.findScript(model)
	if !ok {
		c.JSON(http.StatusNotFound, errorEnvelope("invalid_request_error",
			fmt.Sprintf("The model `%s` does not exist or you do not have access to it.", model), "model_not_found"))
		return
	}

	switch feature {
	case "functions":
		if script.FailFunctions != nil {
			writeScriptedError(c, script.FailFunctions)
			return
		}
		c.Data(http.StatusOK, "application/json", toolCallResponse(script))
	case "json":
		if script.FailJSON != nil {
			writeScriptedError(c, script.FailJSON)
			return
		}
		c.Data(http.StatusOK, "application/json", chatResponse(script.ID, script.jsonContent()))
	case "vision":
		if script.FailVision != nil {
			writeScriptedError(c, script.FailVision)
			return
		}
		c.Data(http.StatusOK, "application/json", chatResponse(script.ID, "A tiny transparent pixel."))
	default:
		if script.FailChat != nil {
			writeScriptedError(c, script.FailChat)
			return
		}
		c.Data(http.StatusOK, "application/json", chatResponse(script.ID, script.chatContent()))
	}
}

// handleEmbeddings handles the /v1/embeddings endpoint
func (ms *MockServer) handleEmbeddings(c *gin.Context) {
	ms.count("embeddings")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorEnvelope("invalid_request_error", "could not read request body", ""))
		return
	}

	model := gjson.GetBytes(body, "model").String()
	script, ok := ms.findScript(model)
	if !ok {
		c.JSON(http.StatusNotFound, errorEnvelope("invalid_request_error",
			fmt.Sprintf("The model `%s` does not exist or you do not have access to it.", model), "model_not_found"))
		return
	}
	if script.FailEmbeddings != nil {
		writeScriptedError(c, script.FailEmbeddings)
		return
	}

	dim := script.EmbeddingDim
	if dim <= 0 {
		dim = 4
	}
	vector := make([]float64, dim)
	for i := range vector {
		vector[i] = float64(i+1) / float64(dim)
	}

	out, _ := sjson.Set(embeddingsTemplate, "model", script.ID)
	if gjson.GetBytes(body, "encoding_format").String() == "base64" {
		out, _ = sjson.Set(out, "data.0.embedding", base64Floats(vector))
	} else {
		out, _ = sjson.Set(out, "data.0.embedding", vector)
	}
	c.Data(http.StatusOK, "application/json", []byte(out))
}

// handleMessages handles the Anthropic-style /v1/messages endpoint
func (ms *MockServer) handleMessages(c *gin.Context) {
	ms.count("messages")

	if ms.config.withoutMessages {
		c.JSON(http.StatusNotFound, errorEnvelope("not_found_error", "messages endpoint is not available", ""))
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorEnvelope("invalid_request_error", "could not read request body", ""))
		return
	}

	model := gjson.GetBytes(body, "model").String()
	if model == "" {
		c.JSON(http.StatusUnprocessableEntity, errorEnvelope("invalid_request_error", "model is required", ""))
		return
	}

	out, _ := sjson.Set(messageTemplate, "model", model)
	c.Data(http.StatusOK, "application/json", []byte(out))
}

// detectFeature classifies a chat completion request body by the probe
// feature it exercises.
func detectFeature(body []byte) string {
	if gjson.GetBytes(body, "tools").Exists() || gjson.GetBytes(body, "functions").Exists() {
		return "functions"
	}
	if gjson.GetBytes(body, "response_format.type").String() == "json_object" {
		return "json"
	}

	vision := false
	gjson.GetBytes(body, "messages").ForEach(func(_, msg gjson.Result) bool {
		content := msg.Get("content")
		if !content.IsArray() {
			return true
		}
		content.ForEach(func(_, part gjson.Result) bool {
			if part.Get("type").String() == "image_url" {
				vision = true
				return false
			}
			return true
		})
		return !vision
	})
	if vision {
		return "vision"
	}

	return "chat"
}

func chatResponse(model, content string) []byte {
	out, _ := sjson.Set(chatTemplate, "created", time.Now().Unix())
	out, _ = sjson.Set(out, "model", model)
	out, _ = sjson.Set(out, "choices.0.message.content", content)
	return []byte(out)
}

func toolCallResponse(script ModelScript) []byte {
	out := string(chatResponse(script.ID, ""))
	out, _ = sjson.Set(out, "choices.0.message.content", nil)
	out, _ = sjson.Set(out, "choices.0.message.tool_calls.0", map[string]interface{}{
		"id":   "call_mock",
		"type": "function",
		"function": map[string]interface{}{
			"name":      script.toolCallName(),
			"arguments": `{"location":"Paris","unit":"celsius"}`,
		},
	})
	out, _ = sjson.Set(out, "choices.0.finish_reason", "tool_calls")
	return []byte(out)
}

// base64Floats encodes the vector the way providers answer
// encoding_format=base64 requests: little-endian float32 bytes.
func base64Floats(vector []float64) string {
	buf := new(bytes.Buffer)
	for _, v := range vector {
		_ = binary.Write(buf, binary.LittleEndian, float32(v))
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func errorEnvelope(errType, message, code string) gin.H {
	inner := gin.H{"type": errType, "message": message}
	if code != "" {
		inner["code"] = code
	}
	return gin.H{"error": inner}
}

func writeScriptedError(c *gin.Context, scriptErr *ScriptedError) {
	status := scriptErr.Status
	if status == 0 {
		status = http.StatusBadRequest
	}
	errType := scriptErr.Type
	if errType == "" {
		errType = "invalid_request_error"
	}
	c.JSON(status, errorEnvelope(errType, scriptErr.Message, scriptErr.Code))
}

func (s ModelScript) chatContent() string {
	if s.ChatContent != "" {
		return s.ChatContent
	}
	return "Hello! How can I help you today?"
}

func (s ModelScript) jsonContent() string {
	if s.JSONContent != "" {
		return s.JSONContent
	}
	return `{"status":"ok"}`
}

func (s ModelScript) toolCallName() string {
	if s.ToolCallName != "" {
		return s.ToolCallName
	}
	return "get_weather"
}

func (s ModelScript) createdOrNow() int64 {
	if s.Created > 0 {
		return s.Created
	}
	return time.Now().Unix()
}
