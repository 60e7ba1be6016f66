package pipeline

// Source は処理対象の行の一覧を提供できる任意の型を表します。
type Source interface {
	Inputs() []Input
}

// CollectInputs は Source から行を取り出します。source が nil の場合は空のスライスを返します。
func CollectInputs(source Source) []Input {
	if source == nil {
		return []Input{}
	}
	return source.Inputs()
}
