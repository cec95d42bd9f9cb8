package session

import "time"

// Session は認可済み端末1台分のアクティブセッション情報。
// LastActivityが更新されない限り、liveness window経過後は
// 同時接続数の計算から除外される。
type Session struct {
	Username     string `redis:"username"`
	SessionID    string `redis:"session_id"`
	IPAddress    string `redis:"ip_address"`
	MACAddress   string `redis:"mac_address"`
	StartTime    int64  `redis:"start_time"`
	LastActivity int64  `redis:"last_activity"`
	BytesIn      int64  `redis:"bytes_in"`
	BytesOut     int64  `redis:"bytes_out"`
}

// Live はliveness window内にアクティビティがあったかを返す。
func (s *Session) Live(now time.Time, window time.Duration) bool {
	return time.Unix(s.LastActivity, 0).After(now.Add(-window))
}
