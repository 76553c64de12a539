// Package upload は画像アップロードの検証と保存を提供する。
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/oklog/ulid/v2"
)

// MaxSize は既定のアップロード上限サイズ（20MB）。
const MaxSize int64 = 20 * 1024 * 1024

// DefaultFolder はフォルダ未指定時の保存先フォルダ。
const DefaultFolder = "communities"

// sniffLen はコンテンツ判定のために先読みするバイト数。
const sniffLen = 3072

// Reason はアップロード失敗の種別を表す。
type Reason string

const (
	ReasonInvalidType  Reason = "invalid_type"
	ReasonTooLarge     Reason = "too_large"
	ReasonUploadFailed Reason = "upload_failed"
)

// Error はアップロード失敗を表す。
type Error struct {
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ReasonOf はerrに含まれる失敗種別を返す。Errorでない場合はReasonUploadFailed。
func ReasonOf(err error) Reason {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Reason
	}
	return ReasonUploadFailed
}

var errTooLarge = errors.New("file exceeds size limit")

var folderPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// File はアップロード対象のファイルを表す。
type File struct {
	Name        string // 元のファイル名（拡張子の決定に使う）
	ContentType string // 申告されたContent-Type
	Size        int64  // 申告されたサイズ。不明な場合は0以下
	Body        io.Reader
}

// Recorder はアップロード結果を記録する。
type Recorder interface {
	RecordUpload(result string)
}

type nopRecorder struct{}

func (nopRecorder) RecordUpload(string) {}

// Uploader は画像を検証してStorageへ保存する。
type Uploader struct {
	storage  Storage
	maxSize  int64
	recorder Recorder
}

// NewUploader は新しいUploaderを生成する。maxSizeが0以下の場合はMaxSizeを使う。
func NewUploader(storage Storage, maxSize int64, recorder Recorder) *Uploader {
	if maxSize <= 0 {
		maxSize = MaxSize
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Uploader{storage: storage, maxSize: maxSize, recorder: recorder}
}

// Upload は画像を検証し、<folder>/<ULID>.<ext> のキーで保存して公開URLを返す。
// 申告されたContent-Typeと先頭バイトから判定した種別の両方がimage/*である必要がある。
func (u *Uploader) Upload(ctx context.Context, f File, folder string) (string, error) {
	publicURL, err := u.upload(ctx, f, folder)
	if err != nil {
		u.recorder.RecordUpload(string(ReasonOf(err)))
		return "", err
	}
	u.recorder.RecordUpload("success")
	return publicURL, nil
}

func (u *Uploader) upload(ctx context.Context, f File, folder string) (string, error) {
	if !isImage(f.ContentType) {
		return "", &Error{Reason: ReasonInvalidType, Err: fmt.Errorf("declared content type %q", f.ContentType)}
	}
	if f.Size > u.maxSize {
		return "", &Error{Reason: ReasonTooLarge, Err: fmt.Errorf("size %d exceeds %d", f.Size, u.maxSize)}
	}
	if f.Body == nil {
		return "", &Error{Reason: ReasonUploadFailed, Err: errors.New("empty body")}
	}

	if folder == "" {
		folder = DefaultFolder
	}
	if !folderPattern.MatchString(folder) {
		return "", &Error{Reason: ReasonUploadFailed, Err: fmt.Errorf("invalid folder %q", folder)}
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", &Error{Reason: ReasonUploadFailed, Err: fmt.Errorf("read file: %w", err)}
	}
	head = head[:n]
	detected := mimetype.Detect(head)
	if !isImage(detected.String()) {
		return "", &Error{Reason: ReasonInvalidType, Err: fmt.Errorf("detected content type %q", detected.String())}
	}

	key := fmt.Sprintf("%s/%s%s", folder, ulid.Make().String(), extension(f.Name, detected))
	body := &limitedReader{
		r:         io.MultiReader(bytes.NewReader(head), f.Body),
		remaining: u.maxSize,
	}

	publicURL, err := u.storage.Put(ctx, key, body)
	if err != nil {
		if errors.Is(err, errTooLarge) {
			return "", &Error{Reason: ReasonTooLarge, Err: err}
		}
		return "", &Error{Reason: ReasonUploadFailed, Err: err}
	}
	return publicURL, nil
}

// Delete は公開URLの末尾2セグメント（<folder>/<file>）が指すオブジェクトを削除する。
func (u *Uploader) Delete(ctx context.Context, publicURL string) error {
	key, err := KeyFromURL(publicURL)
	if err != nil {
		return err
	}
	return u.storage.Delete(ctx, key)
}

// KeyFromURL は公開URLの末尾2セグメントをオブジェクトキーとして返す。
func KeyFromURL(publicURL string) (string, error) {
	p := publicURL
	if parsed, err := url.Parse(publicURL); err == nil {
		p = parsed.Path
	}
	segments := strings.Split(strings.Trim(p, "/"), "/")
	if len(segments) < 2 || segments[len(segments)-2] == "" || segments[len(segments)-1] == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, publicURL)
	}
	return path.Join(segments[len(segments)-2], segments[len(segments)-1]), nil
}

func isImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

// extension は元ファイル名の拡張子を優先し、なければ判定結果の拡張子を使う。
func extension(name string, detected *mimetype.MIME) string {
	ext := strings.ToLower(path.Ext(name))
	if ext != "" && folderPattern.MatchString(ext[1:]) {
		return ext
	}
	return detected.Extension()
}

// limitedReader は上限を超えて読み出そうとした場合にerrTooLargeを返す。
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, errTooLarge
	}
	return n, err
}
