package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/schedule-conflicts/internal/application"
)

var (
	errInvalidVersionID = errors.New("無効なスケジュールバージョン ID です。")
	errStorageDown      = errors.New("データベースに接続できません。")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "指定されたスケジュールバージョンが見つかりません。"})
	case errors.Is(err, application.ErrInvalidArgument):
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Message: localizedStatusMessage(http.StatusBadRequest)})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		r.loggerFor(ctx).WarnContext(ctx, "request aborted", "error", err)
		r.writeJSON(ctx, w, http.StatusServiceUnavailable, errorResponse{Message: localizedStatusMessage(http.StatusServiceUnavailable)})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			details := localizeValidationErrors(vErr)
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "入力内容に誤りがあります。",
				Errors:  details,
			})
			return
		}

		r.loggerFor(ctx).ErrorContext(ctx, "service call failed", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "サーバー内部でエラーが発生しました。"})
	}
}

// loggerFor prefers the request logger and tags it with the version being served.
func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	logger := LoggerFromContext(ctx)
	if logger == nil {
		logger = r.logger
	}
	if id, ok := VersionIDFromContext(ctx); ok {
		logger = logger.With("version_id", id)
	}
	return logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "リクエスト内容が正しくありません。"
	case http.StatusNotFound:
		return "指定されたリソースが見つかりません。"
	case http.StatusMethodNotAllowed:
		return "このメソッドは使用できません。"
	case http.StatusServiceUnavailable:
		return "サービスを一時的に利用できません。"
	case http.StatusUnprocessableEntity:
		return "入力内容に誤りがあります。"
	default:
		return "サーバー内部でエラーが発生しました。"
	}
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(field, msg)
	}
	return translated
}

func translateValidationMessage(field, message string) string {
	switch message {
	case "version_id is required":
		return "スケジュールバージョン ID は必須です。"
	case "kind is required":
		return "リソース種別は必須です。"
	case "resource_id is required":
		return "リソース ID は必須です。"
	}

	switch {
	case strings.HasPrefix(message, "unknown kind"):
		return "不明なリソース種別です: " + strings.TrimSpace(strings.TrimPrefix(message, "unknown kind"))
	case strings.HasPrefix(field, "time_blocks"):
		return "時限の定義が不正です: " + message
	}
	return message
}

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}
