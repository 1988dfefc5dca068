package grid

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ninetytwo-orders/internal/logger"
	"github.com/ninetytwo-orders/internal/sheet"
)

// DefaultDebounce 单行自动保存的防抖间隔
const DefaultDebounce = 600 * time.Millisecond

// Option 会话选项
type Option func(*Session)

// WithDebounce 覆盖防抖间隔
func WithDebounce(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithSaveErrorHandler 保存失败回调；失败不重试
func WithSaveErrorHandler(fn func(rowID uint, err error)) Option {
	return func(s *Session) {
		s.onSaveError = fn
	}
}

type pendingSave struct {
	timer *time.Timer
	seq   uint64
}

// Session 单个订单的编辑会话
type Session struct {
	store       Store
	slug        string
	debounce    time.Duration
	onSaveError func(rowID uint, err error)

	mu      sync.Mutex
	doc     *sheet.Document
	pending map[uint]pendingSave
	seq     uint64
	saves   sync.WaitGroup
}

// NewSession 创建会话，需调用 Load 后使用
func NewSession(store Store, slug string, opts ...Option) *Session {
	s := &Session{
		store:    store,
		slug:     strings.TrimSpace(slug),
		debounce: DefaultDebounce,
		pending:  make(map[uint]pendingSave),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Slug 订单标识
func (s *Session) Slug() string {
	return s.slug
}

// Load 拉取订单，丢弃尚未触发的保存
func (s *Session) Load(ctx context.Context) error {
	doc, err := s.store.LoadOrder(ctx, s.slug)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("%w: order %s", ErrNotFound, s.slug)
	}
	for i := range doc.Rows {
		if doc.Rows[i].Data == nil {
			doc.Rows[i].Data = make(map[string]any)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, id)
	}
	s.doc = doc
	return nil
}

// Document 当前文档快照
func (s *Session) Document() (sheet.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return sheet.Document{}, ErrNotLoaded
	}
	return s.doc.Clone(), nil
}

// RowCount 行数
func (s *Session) RowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return 0
	}
	return len(s.doc.Rows)
}

// SetCell 立即更新内存中的单元格，并为该行安排防抖保存
func (s *Session) SetCell(rowIndex int, key, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, col, err := s.cellLocked(rowIndex, key)
	if err != nil {
		return err
	}
	value, err := sheet.ParseValue(col, raw)
	if err != nil {
		return err
	}
	row.Data[col.Key] = value.Raw()
	s.scheduleLocked(row.ID)
	return nil
}

// PasteResult 粘贴结果
type PasteResult struct {
	Cells   int
	Skipped int
	Rows    []uint
}

// Paste 从 (rowIndex, key) 开始按制表符/换行填充矩形区域，整块写完后每个受影响行保存一次
func (s *Session) Paste(ctx context.Context, rowIndex int, key, text string) (PasteResult, error) {
	s.mu.Lock()
	if _, _, err := s.cellLocked(rowIndex, key); err != nil {
		s.mu.Unlock()
		return PasteResult{}, err
	}
	editable := sheet.EditableColumns(s.doc.Columns)
	start := 0
	for i, col := range editable {
		if col.Key == key {
			start = i
			break
		}
	}

	var result PasteResult
	touched := make(map[uint]struct{})
	for r, line := range splitLines(text) {
		target := rowIndex + r
		if target >= len(s.doc.Rows) {
			break
		}
		row := &s.doc.Rows[target]
		for c, cell := range strings.Split(line, "\t") {
			idx := start + c
			if idx >= len(editable) {
				break
			}
			value, err := sheet.ParseValue(editable[idx], strings.TrimSpace(cell))
			if err != nil {
				result.Skipped++
				continue
			}
			row.Data[editable[idx].Key] = value.Raw()
			result.Cells++
			if _, ok := touched[row.ID]; !ok {
				touched[row.ID] = struct{}{}
				result.Rows = append(result.Rows, row.ID)
			}
		}
	}

	snapshots := make(map[uint]map[string]any, len(touched))
	for _, id := range result.Rows {
		if p, ok := s.pending[id]; ok {
			p.timer.Stop()
			delete(s.pending, id)
		}
		snapshots[id] = s.snapshotLocked(id)
	}
	s.mu.Unlock()

	for _, id := range result.Rows {
		s.save(ctx, id, snapshots[id])
	}
	return result, nil
}

// AddRow 远端新增空行后追加到本地
func (s *Session) AddRow(ctx context.Context) (uint, error) {
	if err := s.ensureLoaded(); err != nil {
		return 0, err
	}
	id, err := s.store.AddRow(ctx, s.slug)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	s.doc.Rows = append(s.doc.Rows, sheet.Row{ID: id, Data: make(map[string]any)})
	s.mu.Unlock()
	return id, nil
}

// DeleteRow 先远端删除，成功后移除本地行
func (s *Session) DeleteRow(ctx context.Context, rowIndex int) error {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	if rowIndex < 0 || rowIndex >= len(s.doc.Rows) {
		s.mu.Unlock()
		return ErrRowIndexOutOfRange
	}
	id := s.doc.Rows[rowIndex].ID
	s.mu.Unlock()

	if err := s.store.DeleteRow(ctx, s.slug, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pending[id]; ok {
		p.timer.Stop()
		delete(s.pending, id)
	}
	for i, row := range s.doc.Rows {
		if row.ID == id {
			s.doc.Rows = append(s.doc.Rows[:i], s.doc.Rows[i+1:]...)
			break
		}
	}
	return nil
}

// Totals 数量列与公式列合计
func (s *Session) Totals() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	totals := sheet.Totals(s.doc.Columns, s.doc.RowData())
	result := make(map[string]string, len(totals))
	for key, value := range totals {
		if sheet.IsQuantityColumn(key) {
			result[key] = value.String()
			continue
		}
		result[key] = sheet.FormatAmount(value)
	}
	return result, nil
}

// Pending 尚未触发的防抖保存数量
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Flush 立即执行全部待保存行并等待进行中的保存结束
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	ids := make([]uint, 0, len(s.pending))
	snapshots := make(map[uint]map[string]any, len(s.pending))
	for id, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, id)
		if data := s.snapshotLocked(id); data != nil {
			ids = append(ids, id)
			snapshots[id] = data
		}
	}
	s.mu.Unlock()

	var errs []error
	for _, id := range ids {
		if err := s.save(ctx, id, snapshots[id]); err != nil {
			errs = append(errs, err)
		}
	}
	s.saves.Wait()
	return errors.Join(errs...)
}

func (s *Session) ensureLoaded() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}
	return nil
}

func (s *Session) cellLocked(rowIndex int, key string) (*sheet.Row, sheet.Column, error) {
	if s.doc == nil {
		return nil, sheet.Column{}, ErrNotLoaded
	}
	if rowIndex < 0 || rowIndex >= len(s.doc.Rows) {
		return nil, sheet.Column{}, ErrRowIndexOutOfRange
	}
	col, ok := sheet.FindColumn(s.doc.Columns, key)
	if !ok {
		return nil, sheet.Column{}, fmt.Errorf("%w: %s", ErrUnknownColumn, key)
	}
	if !col.Editable() {
		return nil, sheet.Column{}, fmt.Errorf("%w: %s", ErrColumnNotEditable, key)
	}
	return &s.doc.Rows[rowIndex], col, nil
}

// scheduleLocked 重置该行的防抖计时
func (s *Session) scheduleLocked(rowID uint) {
	if p, ok := s.pending[rowID]; ok {
		p.timer.Stop()
	}
	s.seq++
	seq := s.seq
	s.pending[rowID] = pendingSave{
		seq:   seq,
		timer: time.AfterFunc(s.debounce, func() { s.fire(rowID, seq) }),
	}
}

func (s *Session) fire(rowID uint, seq uint64) {
	s.mu.Lock()
	p, ok := s.pending[rowID]
	if !ok || p.seq != seq {
		s.mu.Unlock()
		return
	}
	delete(s.pending, rowID)
	data := s.snapshotLocked(rowID)
	if data == nil {
		s.mu.Unlock()
		return
	}
	s.saves.Add(1)
	s.mu.Unlock()

	defer s.saves.Done()
	_ = s.save(context.Background(), rowID, data)
}

func (s *Session) snapshotLocked(rowID uint) map[string]any {
	if s.doc == nil {
		return nil
	}
	for _, row := range s.doc.Rows {
		if row.ID != rowID {
			continue
		}
		data := make(map[string]any, len(row.Data))
		for k, v := range row.Data {
			data[k] = v
		}
		return data
	}
	return nil
}

func (s *Session) save(ctx context.Context, rowID uint, data map[string]any) error {
	err := s.store.SaveRow(ctx, s.slug, rowID, data)
	if err == nil {
		return nil
	}
	logger.Warnw("row_save_failed", "slug", s.slug, "row_id", rowID, "error", err)
	if s.onSaveError != nil {
		s.onSaveError(rowID, err)
	}
	return err
}

// splitLines 按行拆分剪贴板文本，忽略末尾换行
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
