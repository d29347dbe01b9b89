package decoder

import qrio "github.com/ericlevine/qrio"

// DataBlock is one de-interleaved block of data plus error-correction
// codewords.
type DataBlock struct {
	NumDataCodewords int
	Codewords        []byte
}

// DeinterleaveBlocks splits the raw codeword stream back into the blocks
// it was interleaved from.
func DeinterleaveBlocks(raw []byte, version *VersionInfo, level qrio.Level) []DataBlock {
	ecBlocks := version.ECBlocksFor(level)

	blocks := make([]DataBlock, 0, ecBlocks.NumBlocks())
	for _, group := range ecBlocks.Groups {
		for i := 0; i < group.Count; i++ {
			blocks = append(blocks, DataBlock{
				NumDataCodewords: group.DataCodewords,
				Codewords:        make([]byte, group.DataCodewords+ecBlocks.ECCodewordsPerBlock),
			})
		}
	}

	// Blocks are ordered shortest first; find where the longer ones begin.
	shorterTotal := len(blocks[0].Codewords)
	longerStart := len(blocks)
	for longerStart > 0 && len(blocks[longerStart-1].Codewords) != shorterTotal {
		longerStart--
	}
	shorterData := shorterTotal - ecBlocks.ECCodewordsPerBlock

	offset := 0
	for i := 0; i < shorterData; i++ {
		for j := range blocks {
			blocks[j].Codewords[i] = raw[offset]
			offset++
		}
	}
	for j := longerStart; j < len(blocks); j++ {
		blocks[j].Codewords[shorterData] = raw[offset]
		offset++
	}
	for i := shorterData; i < shorterTotal; i++ {
		for j := range blocks {
			pos := i
			if j >= longerStart {
				pos = i + 1
			}
			blocks[j].Codewords[pos] = raw[offset]
			offset++
		}
	}

	return blocks
}
