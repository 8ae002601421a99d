package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuqie6/StudyPath/internal/dto"
	"github.com/yuqie6/StudyPath/internal/schema"
	"github.com/yuqie6/StudyPath/internal/service"
)

func userToDTO(u *schema.User) dto.UserDTO {
	return dto.UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Avatar:      u.Avatar,
		MajorTypeID: u.MajorTypeID,
	}
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.AuthRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体格式错误")
		return
	}
	user, err := a.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameExists) {
			writeError(w, http.StatusConflict, "用户名已存在")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, userToDTO(user))
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.AuthRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体格式错误")
		return
	}
	user, err := a.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			writeError(w, http.StatusUnauthorized, "用户名或密码错误")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, userToDTO(user))
}

func (a *API) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryInt64(r, "userId")
	if !ok {
		writeError(w, http.StatusBadRequest, "userId 无效")
		return
	}
	user, err := a.auth.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "用户不存在")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, userToDTO(user))
}

func (a *API) handleMajorType(w http.ResponseWriter, r *http.Request) {
	var req dto.MajorTypeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体格式错误")
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "userId 无效")
		return
	}
	if err := a.auth.UpdateMajorType(r.Context(), req.UserID, req.MajorTypeID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryInt64(r, "userId")
	if !ok {
		writeError(w, http.StatusBadRequest, "userId 无效")
		return
	}
	var req dto.ProfileUpdateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体格式错误")
		return
	}
	user, err := a.auth.UpdateProfile(r.Context(), userID, req.Username, req.MajorTypeID)
	if err != nil {
		if errors.Is(err, service.ErrUsernameExists) {
			writeError(w, http.StatusConflict, "用户名已存在")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, userToDTO(user))
}

func (a *API) handlePasswordChange(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryInt64(r, "userId")
	if !ok {
		writeError(w, http.StatusBadRequest, "userId 无效")
		return
	}
	var req dto.PasswordChangeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体格式错误")
		return
	}
	if err := a.auth.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			writeError(w, http.StatusUnauthorized, "原密码错误")
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "用户不存在")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleAvatarUpload 接收 multipart 头像文件，存到上传目录并回写路径。
// 文件名固定为 user_<id>_<毫秒时间戳><扩展名>，避免覆盖与路径注入。
func (a *API) handleAvatarUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryInt64(r, "userId")
	if !ok {
		writeError(w, http.StatusBadRequest, "userId 无效")
		return
	}
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "上传内容格式错误")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "缺少 file 字段")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		writeError(w, http.StatusBadRequest, "不支持的图片格式")
		return
	}

	uploadDir := a.cfg.Server.UploadDir
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, "创建上传目录失败")
		return
	}

	name := fmt.Sprintf("user_%d_%d%s", userID, time.Now().UnixMilli(), ext)
	dst, err := os.Create(filepath.Join(uploadDir, name))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "保存文件失败")
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		writeError(w, http.StatusInternalServerError, "保存文件失败")
		return
	}

	avatarPath := "/uploads/" + name
	if err := a.auth.UpdateAvatar(r.Context(), userID, avatarPath); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"avatar": avatarPath})
}
