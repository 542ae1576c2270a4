package docfill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlan_StripsFences(t *testing.T) {
	for _, raw := range []string{
		"```json\n" + `{"kv":[{"anchor":"姓名","val":"张三"}]}` + "\n```",
		"```\n" + `{"kv":[{"anchor":"姓名","val":"张三"}]}` + "\n```\n",
		`  {"kv":[{"anchor":"姓名","val":"张三"}]}  `,
	} {
		p, err := ParsePlan([]byte(raw))
		require.NoError(t, err, raw)
		assert.Equal(t, []KV{{Anchor: "姓名", Val: "张三"}}, p.KV)
		assert.Empty(t, p.Lists)
	}
}

func TestParsePlan_LooseValues(t *testing.T) {
	raw := `{
		"kv": [{"anchor": "年龄", "val": 25}, {"anchor": "身高", "val": 1.75}, {"anchor": "备注", "val": null}],
		"checkbox": [{"keyword": "党员", "status": true}],
		"lists": [{
			"keyword": "奖惩情况",
			"headers": ["时间", "奖项"],
			"data": [["2019", 1, "多余"], "单项", [2021]]
		}]
	}`
	p, err := ParsePlan([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, []KV{{"年龄", "25"}, {"身高", "1.75"}, {"备注", ""}}, p.KV)
	assert.Equal(t, "true", p.Checkbox[0].Status)
	require.Len(t, p.Lists, 1)
	assert.Equal(t, [][]string{{"2019", "1"}, {"单项", ""}, {"2021", ""}}, p.Lists[0].Data)
}

func TestParsePlan_Errors(t *testing.T) {
	for name, raw := range map[string]string{
		"empty":         "   ",
		"fence only":    "```json\n```",
		"not json":      "kv: yes",
		"nested value":  `{"kv":[{"anchor":"a","val":{"x":1}}]}`,
		"row of object": `{"lists":[{"keyword":"a","data":[{"x":1}]}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePlan([]byte(raw))
			assert.ErrorIs(t, err, ErrInvalidPlan)
		})
	}
}

func TestPlan_NormalizeRows(t *testing.T) {
	p := Plan{Lists: []List{
		{Keyword: "a", Headers: []string{"x", "y"}, Data: [][]string{{"1"}, {"1", "2", "3"}, {"1", "2"}}},
		{Keyword: "b", Data: [][]string{{"1", "2", "3"}}},
	}}
	p.NormalizeRows()
	assert.Equal(t, [][]string{{"1", ""}, {"1", "2"}, {"1", "2"}}, p.Lists[0].Data)
	assert.Equal(t, [][]string{{"1", "2", "3"}}, p.Lists[1].Data)

	before := p.Clone()
	p.NormalizeRows()
	assert.Equal(t, before, p)
}

func TestPlan_CloneIsDeep(t *testing.T) {
	p := Plan{
		KV:    []KV{{Anchor: "a", Val: "1"}},
		Lists: []List{{Keyword: "l", Headers: []string{"h"}, Data: [][]string{{"v"}}}},
	}
	c := p.Clone()
	c.KV[0].Val = "2"
	c.Lists[0].Headers[0] = "x"
	c.Lists[0].Data[0][0] = "x"

	assert.Equal(t, "1", p.KV[0].Val)
	assert.Equal(t, "h", p.Lists[0].Headers[0])
	assert.Equal(t, "v", p.Lists[0].Data[0][0])
}

func TestPlan_JSON(t *testing.T) {
	var p Plan
	assert.True(t, p.Empty())

	out, err := p.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"kv":[],"checkbox":[],"lists":[]}`, string(out))

	p.KV = []KV{{Anchor: "姓名", Val: "张三"}}
	assert.False(t, p.Empty())
	out, err = p.JSON()
	require.NoError(t, err)
	back, err := ParsePlan(out)
	require.NoError(t, err)
	assert.Equal(t, p.KV, back.KV)
}

func TestLoadPlan_YAML(t *testing.T) {
	path := filepath.Join(testdataDir(t), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
kv:
  - anchor: 姓名
    val: 张三
  - anchor: 年龄
    val: 25
checkbox:
  - keyword: 党员
    status: 是
lists:
  - keyword: 奖惩情况
    headers: [时间, 奖项]
    data:
      - [2019, 一等奖学金]
      - [2020]
`), 0o644))

	p, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, []KV{{"姓名", "张三"}, {"年龄", "25"}}, p.KV)
	assert.Equal(t, []Checkbox{{"党员", "是"}}, p.Checkbox)
	assert.Equal(t, [][]string{{"2019", "一等奖学金"}, {"2020", ""}}, p.Lists[0].Data)
}

func TestLoadPlan_Errors(t *testing.T) {
	_, err := LoadPlan(filepath.Join(testdataDir(t), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(testdataDir(t), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("kv: [unclosed"), 0o644))
	_, err = LoadPlan(path)
	assert.ErrorIs(t, err, ErrInvalidPlan)
}
