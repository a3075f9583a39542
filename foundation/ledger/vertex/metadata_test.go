package vertex_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/hongmengning/hathor-core/foundation/ledger/vertex"
)

func Test_MetadataCodec(t *testing.T) {
	t.Log("Given the need to round trip static metadata records.")
	{
		t.Log("\tWhen handling a block record.")
		{
			orig := vertex.BlockStaticMetadata{
				StaticMetadataBase: vertex.StaticMetadataBase{
					MinHeight: 12,
				},
				Height:                     42,
				FeatureActivationBitCounts: []uint64{3, 0, 7},
				FeatureStates:              map[vertex.Feature]vertex.FeatureState{},
			}

			data, err := orig.Encode()
			if err != nil {
				t.Fatalf("\t%s\tShould be able to encode the record: %v", failed, err)
			}
			t.Logf("\t%s\tShould be able to encode the record.", success)

			meta, err := vertex.DecodeStaticMetadata(data, vertex.KindBlock)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to decode the record: %v", failed, err)
			}
			t.Logf("\t%s\tShould be able to decode the record.", success)

			decoded, ok := meta.(*vertex.BlockStaticMetadata)
			if !ok {
				t.Fatalf("\t%s\tShould get a block record back, got %T.", failed, meta)
			}

			if !reflect.DeepEqual(*decoded, orig) {
				t.Errorf("\t%s\tShould get the identical record back.", failed)
				t.Logf("\t%s\tgot: %+v", failed, *decoded)
				t.Logf("\t%s\texp: %+v", failed, orig)
			} else {
				t.Logf("\t%s\tShould get the identical record back.", success)
			}
		}

		t.Log("\tWhen handling a transaction record.")
		{
			orig := vertex.TransactionStaticMetadata{
				StaticMetadataBase: vertex.StaticMetadataBase{
					MinHeight: 7,
				},
			}

			data, err := orig.Encode()
			if err != nil {
				t.Fatalf("\t%s\tShould be able to encode the record: %v", failed, err)
			}

			meta, err := vertex.DecodeStaticMetadata(data, vertex.KindTransaction)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to decode the record: %v", failed, err)
			}

			decoded, ok := meta.(*vertex.TransactionStaticMetadata)
			if !ok {
				t.Fatalf("\t%s\tShould get a transaction record back, got %T.", failed, meta)
			}

			if !reflect.DeepEqual(*decoded, orig) {
				t.Errorf("\t%s\tShould get the identical record back, got %+v.", failed, *decoded)
			} else {
				t.Logf("\t%s\tShould get the identical record back.", success)
			}
		}

		t.Log("\tWhen the caller supplies an unknown target kind.")
		{
			if _, err := vertex.DecodeStaticMetadata([]byte(`{}`), vertex.Kind("account")); !errors.Is(err, vertex.ErrUnsupportedVertexKind) {
				t.Errorf("\t%s\tShould get ErrUnsupportedVertexKind, got %v.", failed, err)
			} else {
				t.Logf("\t%s\tShould get ErrUnsupportedVertexKind.", success)
			}
		}

		t.Log("\tWhen decoding a record persisted before new fields existed.")
		{
			// Older block records did not track every field the shape has
			// today. Missing fields must decode to their zero values.
			data := []byte(`{"min_height":3,"height":9}`)

			meta, err := vertex.DecodeStaticMetadata(data, vertex.KindBlock)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to decode the record: %v", failed, err)
			}

			decoded := meta.(*vertex.BlockStaticMetadata)
			if decoded.MinHeight != 3 || decoded.Height != 9 {
				t.Errorf("\t%s\tShould keep the known fields, got %+v.", failed, *decoded)
			} else {
				t.Logf("\t%s\tShould keep the known fields.", success)
			}

			if decoded.FeatureActivationBitCounts != nil || decoded.FeatureStates != nil {
				t.Errorf("\t%s\tShould zero the missing fields, got %+v.", failed, *decoded)
			} else {
				t.Logf("\t%s\tShould zero the missing fields.", success)
			}
		}
	}
}
