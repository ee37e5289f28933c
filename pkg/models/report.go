package models

// SyncReport は同期バッチの件数集計です
// 個々の失敗はバッチを中断せず、ここに計上されます。
type SyncReport struct {
	Synced  int
	Failed  int
	Skipped int
}

// Add は別のレポートの件数を加算します
func (r *SyncReport) Add(other SyncReport) {
	r.Synced += other.Synced
	r.Failed += other.Failed
	r.Skipped += other.Skipped
}

// BackfillReport は画像バックフィルの件数集計です
type BackfillReport struct {
	Processed int
	Succeeded int
	Failed    int
}
