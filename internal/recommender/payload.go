package recommender

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Item 上游返回的单条推荐
// 上游字段齐整度不稳定：type_id 可能是数字、数字字符串或空串，
// 统一在边界处收敛成显式的"有/无"。
type Item struct {
	CourseIndex    int         `json:"course_index"`
	Name           string      `json:"name"`
	TypeID         OptionalInt `json:"type_id"`
	TypeName       string      `json:"type_name"`
	PredictedScore float64     `json:"predicted_score"`
	Reason         string      `json:"reason,omitempty"`
}

// OptionalInt 可缺省整数
type OptionalInt struct {
	Value int
	Valid bool
}

// Int 构造一个有值的 OptionalInt
func Int(v int) OptionalInt {
	return OptionalInt{Value: v, Valid: true}
}

// UnmarshalJSON 兼容数字、数字字符串、空串与 null
func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*o = OptionalInt{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			// 无法解析的字符串视同缺省
			*o = OptionalInt{}
			return nil
		}
		*o = OptionalInt{Value: n, Valid: true}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("type_id 字段格式异常: %w", err)
	}
	*o = OptionalInt{Value: int(f), Valid: true}
	return nil
}

// MarshalJSON 无值时输出 null
func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Payload 推荐接口的完整响应
// recommendations 之外的顶层字段原样保留，向下游透传。
type Payload struct {
	Recommendations []Item
	Extra           map[string]json.RawMessage
}

// UnmarshalJSON 拆出 recommendations，其余字段存入 Extra
func (p *Payload) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Extra = make(map[string]json.RawMessage, len(raw))
	for k, v := range raw {
		if k == "recommendations" {
			if err := json.Unmarshal(v, &p.Recommendations); err != nil {
				return fmt.Errorf("recommendations 字段格式异常: %w", err)
			}
			continue
		}
		p.Extra[k] = v
	}
	if p.Recommendations == nil {
		p.Recommendations = []Item{}
	}
	return nil
}

// MarshalJSON 合并 recommendations 与透传字段
func (p Payload) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+1)
	for k, v := range p.Extra {
		out[k] = v
	}
	items := p.Recommendations
	if items == nil {
		items = []Item{}
	}
	out["recommendations"] = items
	return json.Marshal(out)
}
